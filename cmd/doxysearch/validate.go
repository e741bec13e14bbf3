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

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/searchdata"
	"github.com/ianlewis/go-doxysearch/sections"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "check bucket files for structural problems",
	ArgsUsage: "PATH...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail on warnings as well as errors",
		},
	},
	OnUsageError: onUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("%w: expected at least one PATH argument", ErrFlagParse)
		}

		files, err := expandPaths(c.Args().Slice(), false)
		if err != nil {
			return err
		}

		var errCount, warnCount int
		report := func(path string, sev searchdata.Severity, msg string) {
			if sev == searchdata.SeverityWarning {
				warnCount++
			} else {
				errCount++
			}
			fmt.Fprintf(c.App.Writer, "%s: %s\n", path, msg)
		}

		for _, path := range c.Args().Slice() {
			for _, missing := range missingBuckets(path) {
				report(missing, searchdata.SeverityError, "error: listed in manifest but not found")
			}
		}

		chars := newBucketChars()
		for _, path := range files {
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrDoxysearch, err)
			}
			f, err := searchdata.Unmarshal(b)
			if err != nil {
				report(path, searchdata.SeverityError, fmt.Sprintf("error: %v", err))
				continue
			}
			bucket, err := chars.lookup(path)
			if err != nil {
				report(path, searchdata.SeverityError, fmt.Sprintf("error: %v", err))
			}
			for _, p := range searchdata.Validate(f, &searchdata.ValidateOptions{Bucket: bucket}) {
				report(path, p.Severity, p.String())
			}
		}

		fmt.Fprintf(c.App.ErrWriter, "%d files, %d errors, %d warnings\n", len(files), errCount, warnCount)
		if errCount > 0 || (c.Bool("strict") && warnCount > 0) {
			return ErrCheckFailed
		}
		return nil
	},
}

// missingBuckets returns the bucket files listed in the manifest of a
// search directory that do not exist in any accepted form.
func missingBuckets(dir string) []string {
	m, err := sections.Open(dir)
	if err != nil {
		return nil
	}

	var missing []string
	for _, sec := range m.Sections {
		for n := range sec.Buckets() {
			path := filepath.Join(dir, sec.BucketFile(n))
			found := false
			for _, ext := range doxysearch.BucketExtensions() {
				if _, err := os.Stat(path + ext); err == nil || !errors.Is(err, os.ErrNotExist) {
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, path)
			}
		}
	}
	return missing
}
