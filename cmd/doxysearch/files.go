// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/sections"
)

// expandPaths expands directories into the uncompressed bucket files they
// hold, and the manifest if withManifest is set. Files are returned as given.
func expandPaths(paths []string, withManifest bool) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		dirEntries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDoxysearch, err)
		}
		var dirFiles []string
		for _, de := range dirEntries {
			name := de.Name()
			if de.IsDir() {
				continue
			}
			if withManifest && name == sections.FileName {
				dirFiles = append(dirFiles, filepath.Join(path, name))
				continue
			}
			if _, _, ok := doxysearch.ParseBucketName(name); ok && strings.HasSuffix(name, ".js") {
				dirFiles = append(dirFiles, filepath.Join(path, name))
			}
		}
		slices.Sort(dirFiles)
		files = append(files, dirFiles...)
	}
	return files, nil
}

// bucketChars finds the bucket character expected of each bucket file from
// the manifest next to it.
type bucketChars struct {
	manifests map[string]*sections.Manifest
}

func newBucketChars() *bucketChars {
	return &bucketChars{manifests: map[string]*sections.Manifest{}}
}

// lookup returns the bucket character for the bucket file at path, or zero
// if there is no manifest or the file is not listed in it.
func (b *bucketChars) lookup(path string) (rune, error) {
	dir := filepath.Dir(path)
	m, ok := b.manifests[dir]
	if !ok {
		var err error
		m, err = sections.Open(dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return 0, err
		}
		b.manifests[dir] = m
	}
	if m == nil {
		return 0, nil
	}

	name, n, ok := doxysearch.ParseBucketName(filepath.Base(path))
	if !ok {
		return 0, nil
	}
	sec := m.Section(name)
	if sec == nil {
		return 0, nil
	}
	chars := sec.Buckets()
	if n >= len(chars) {
		return 0, nil
	}
	return chars[n], nil
}
