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

// Package builder regenerates a Doxygen search directory from a neutral list
// of records.
//
// Search directories are write-once artifacts. Build produces every bucket
// file and the searchdata.js manifest from scratch, in the layout Doxygen
// writes, so that the output can replace a generated directory wholesale.
package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/searchdata"
	"github.com/ianlewis/go-doxysearch/sections"
)

// sectionOrder is the order Doxygen lists its search sections in.
var sectionOrder = []string{
	"all",
	"classes",
	"namespaces",
	"files",
	"functions",
	"variables",
	"typedefs",
	"enums",
	"enumvalues",
	"related",
	"defines",
	"groups",
	"pages",
	"concepts",
}

// Options are options for Build.
type Options struct {
	// Labels maps section names to their display labels. Sections without
	// a label use their title-cased name.
	Labels map[string]string
}

// DefaultOptions is the default options for Build.
var DefaultOptions = &Options{
	Labels: map[string]string{
		"all":        "All",
		"classes":    "Data Structures",
		"namespaces": "Namespaces",
		"files":      "Files",
		"functions":  "Functions",
		"variables":  "Variables",
		"typedefs":   "Typedefs",
		"enums":      "Enumerations",
		"enumvalues": "Enumerator",
		"related":    "Friends",
		"defines":    "Macros",
		"groups":     "Topics",
		"pages":      "Pages",
		"concepts":   "Concepts",
	},
}

// Site is a generated search directory.
type Site struct {
	// Manifest lists the sections.
	Manifest *sections.Manifest

	// Buckets maps bucket file names to their contents.
	Buckets map[string]*searchdata.File
}

// Files returns the bucket file names in sorted order.
func (s *Site) Files() []string {
	var names []string
	for name := range s.Buckets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WriteDir writes the bucket files and the manifest to dir, creating it if
// needed. Existing files with the same names are replaced.
func (s *Site) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating search directory: %w", err)
	}

	for _, name := range s.Files() {
		b, err := searchdata.Marshal(s.Buckets[name])
		if err != nil {
			return fmt.Errorf("encoding %q: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return fmt.Errorf("writing bucket file: %w", err)
		}
	}

	f, err := os.Create(filepath.Join(dir, sections.FileName))
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	defer f.Close()
	if err := sections.Encode(f, s.Manifest); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// keyed is a record with its sort key, the term as it reads back from the
// encoded keyword id.
type keyed struct {
	key string
	*Record
}

// Build generates a search directory from records. Every record is added to
// the "all" section and to its own section. Records with the same term and
// name are merged into one entry and duplicate target URLs are dropped.
func Build(records []*Record, opts *Options) (*Site, error) {
	if opts == nil {
		opts = DefaultOptions
	}

	bySection := map[string][]keyed{}
	for i, r := range records {
		if err := checkRecord(r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidRecords, i, err)
		}
		key, err := searchdata.DecodeTerm(searchdata.EncodeTerm(r.Term))
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidRecords, i, err)
		}

		k := keyed{key: key, Record: r}
		bySection[doxysearch.AllSection] = append(bySection[doxysearch.AllSection], k)
		if r.Section != "" && r.Section != doxysearch.AllSection {
			bySection[r.Section] = append(bySection[r.Section], k)
		}
	}

	site := &Site{
		Manifest: &sections.Manifest{},
		Buckets:  map[string]*searchdata.File{},
	}
	for i, name := range orderSections(bySection) {
		sec := &sections.Section{
			Index: i,
			Name:  name,
			Label: label(opts, name),
		}
		site.Manifest.Sections = append(site.Manifest.Sections, sec)

		for n, b := range buildBuckets(bySection[name]) {
			sec.Content += string(b.char)
			site.Buckets[sec.BucketFile(n)] = b.file
		}
	}

	return site, nil
}

func checkRecord(r *Record) error {
	if r.Term == "" {
		return fmt.Errorf("empty term")
	}
	if r.Name == "" {
		return fmt.Errorf("empty name for term %q", r.Term)
	}
	if len(r.Targets) == 0 {
		return fmt.Errorf("no targets for term %q", r.Term)
	}
	for _, t := range r.Targets {
		if !searchdata.ValidURL(t.URL) {
			return fmt.Errorf("invalid url %q for term %q", t.URL, r.Term)
		}
	}
	return nil
}

// orderSections returns the section names in Doxygen's order followed by
// unknown sections in name order.
func orderSections(bySection map[string][]keyed) []string {
	var names []string
	for _, name := range sectionOrder {
		if _, ok := bySection[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range bySection {
		if !slices.Contains(sectionOrder, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

func label(opts *Options, name string) string {
	if l, ok := opts.Labels[name]; ok {
		return l
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

type builtBucket struct {
	char rune
	file *searchdata.File
}

// buildBuckets sorts and merges the records of one section and splits them
// into buckets by first character.
func buildBuckets(records []keyed) []builtBucket {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b keyed) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	var buckets []builtBucket
	var last *searchdata.Entry
	var lastKey string
	for _, r := range sorted {
		if last != nil && r.key == lastKey && r.Name == last.Name {
			last.Targets = appendTargets(last.Targets, r.Targets)
			continue
		}

		first, _ := utf8.DecodeRuneInString(r.key)
		first = unicode.ToLower(first)
		if len(buckets) == 0 || buckets[len(buckets)-1].char != first {
			buckets = append(buckets, builtBucket{
				char: first,
				file: &searchdata.File{},
			})
		}

		f := buckets[len(buckets)-1].file
		last = &searchdata.Entry{
			ID:      searchdata.EncodeID(r.Term, len(f.Entries)),
			Name:    r.Name,
			Targets: appendTargets(nil, r.Targets),
		}
		lastKey = r.key
		f.Entries = append(f.Entries, last)
	}
	return buckets
}

// appendTargets appends targets whose URL is not already present.
func appendTargets(dst []*searchdata.Target, src []*Target) []*searchdata.Target {
	for _, t := range src {
		if slices.ContainsFunc(dst, func(d *searchdata.Target) bool {
			return d.URL == t.URL
		}) {
			continue
		}
		dst = append(dst, &searchdata.Target{
			URL:   t.URL,
			Local: t.Local,
			Scope: t.Scope,
		})
	}
	return dst
}
