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

package doxysearch

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-doxysearch/fulltext"
	"github.com/ianlewis/go-doxysearch/internal/folding"
	"github.com/ianlewis/go-doxysearch/internal/index"
	"github.com/ianlewis/go-doxysearch/pages"
	"github.com/ianlewis/go-doxysearch/searchdata"
	"github.com/ianlewis/go-doxysearch/sections"
)

// AllSection is the name of the section that holds every keyword.
const AllSection = "all"

var (
	// ErrSectionNotFound indicates a query for an unknown section.
	ErrSectionNotFound = errors.New("section not found")

	// ErrNoBuckets indicates a search directory without bucket files.
	ErrNoBuckets = errors.New("no bucket files found")
)

// bucketExts are the accepted bucket file extensions in lookup order.
var bucketExts = []string{"", ".gz", ".dz", ".GZ", ".DZ"}

// BucketExtensions returns the extensions, appended to the ".js" bucket file
// name, under which a bucket file is looked up. The empty string stands for
// an uncompressed file.
func BucketExtensions() []string {
	return slices.Clone(bucketExts)
}

// Options are options for opening a search directory.
type Options struct {
	// Folder returns a [transform.Transformer] that performs folding (e.g.
	// case folding, accent removal, whitespace folding) on keywords and
	// queries.
	Folder func() transform.Transformer

	// IndexPages includes the text of linked pages in full-text search.
	IndexPages bool

	// Pages are options for reading linked pages.
	Pages *pages.Options
}

// DefaultOptions is the default options for a SearchIndex.
var DefaultOptions = &Options{
	Folder: folding.Default,
}

type foldedEntry struct {
	folded string
	entry  *searchdata.Entry
}

func (e *foldedEntry) String() string {
	return e.folded
}

// section is a loaded search section.
type section struct {
	*sections.Section

	// entries are in bucket order.
	entries []*searchdata.Entry

	// index is sorted by folded keyword.
	index *index.Index[*foldedEntry]
}

// SearchIndex is a loaded Doxygen search directory.
type SearchIndex struct {
	dir      string
	manifest *sections.Manifest
	sections map[string]*section

	folder     func() transform.Transformer
	indexPages bool
	pages      *pages.Store

	ftOnce sync.Once
	ft     *fulltext.Index
	ftDocs map[string]ftTarget
	ftErr  error
}

// OpenAll opens all search directories under a directory. A search directory
// is any directory containing a searchdata.js manifest. This function will
// return all successfully opened indexes along with any errors that occurred.
func OpenAll(path string, opts *Options) ([]*SearchIndex, []error) {
	var indexes []*SearchIndex
	var errs []error
	if err := filepath.WalkDir(path, func(path string, info fs.DirEntry, err error) error {
		// Walking the file path will ignore errors.
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !info.IsDir() && info.Name() == sections.FileName {
			s, err := Open(filepath.Dir(path), opts)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			indexes = append(indexes, s)
		}
		return nil
	}); err != nil {
		errs = append(errs, err)
		return nil, errs
	}
	return indexes, errs
}

// bucket is a bucket file to load.
type bucket struct {
	section *section
	n       int
	path    string
	file    *searchdata.File
}

// Open opens the search directory at the given path. If the directory has no
// searchdata.js manifest the sections are discovered from the bucket file
// names.
func Open(searchDir string, opts *Options) (*SearchIndex, error) {
	if opts == nil {
		opts = DefaultOptions
	}

	s := &SearchIndex{
		dir:        searchDir,
		sections:   map[string]*section{},
		folder:     DefaultOptions.Folder,
		indexPages: opts.IndexPages,
		pages:      pages.New(searchDir, opts.Pages),
	}
	if opts.Folder != nil {
		s.folder = opts.Folder
	}

	var buckets []*bucket
	m, err := sections.Open(searchDir)
	switch {
	case err == nil:
		s.manifest = m
		buckets, err = s.manifestBuckets()
	case errors.Is(err, os.ErrNotExist):
		buckets, err = s.globBuckets()
	}
	if err != nil {
		return nil, fmt.Errorf("opening search directory %q: %w", searchDir, err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, b := range buckets {
		g.Go(func() error {
			f, err := readBucket(b.path)
			if err != nil {
				return err
			}
			b.file = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("opening search directory %q: %w", searchDir, err)
	}

	for _, b := range buckets {
		b.section.entries = append(b.section.entries, b.file.Entries...)
	}

	if _, ok := s.sections[AllSection]; !ok {
		s.sections[AllSection] = s.unionSection()
	}

	for _, sec := range s.sections {
		var words []*foldedEntry
		for _, e := range sec.entries {
			folded, err := folding.String(s.folder, e.Keyword())
			if err != nil {
				return nil, fmt.Errorf("folding keyword %q: %w", e.Keyword(), err)
			}
			words = append(words, &foldedEntry{
				folded: folded,
				entry:  e,
			})
		}
		// We need to re-sort based on the folded keyword.
		sec.index = index.NewIndex(words, strings.Compare)
	}

	return s, nil
}

func (s *SearchIndex) manifestBuckets() ([]*bucket, error) {
	var buckets []*bucket
	for _, ms := range s.manifest.Sections {
		sec := &section{Section: ms}
		s.sections[ms.Name] = sec
		for n := range ms.Buckets() {
			path, err := findBucket(filepath.Join(s.dir, ms.BucketFile(n)))
			if err != nil {
				return nil, err
			}
			buckets = append(buckets, &bucket{
				section: sec,
				n:       n,
				path:    path,
			})
		}
	}
	return buckets, nil
}

// globBuckets discovers bucket files named <section>_<hex>.js and builds a
// manifest from them. Section labels are the section names and the bucket
// characters are taken from the first keyword in each bucket.
func (s *SearchIndex) globBuckets() ([]*bucket, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*_*.js*"))
	if err != nil {
		return nil, fmt.Errorf("listing bucket files: %w", err)
	}

	var buckets []*bucket
	for _, path := range matches {
		name, n, ok := ParseBucketName(filepath.Base(path))
		if !ok {
			continue
		}
		sec, ok := s.sections[name]
		if !ok {
			sec = &section{Section: &sections.Section{
				Name:  name,
				Label: name,
			}}
			s.sections[name] = sec
		}
		buckets = append(buckets, &bucket{
			section: sec,
			n:       n,
			path:    path,
		})
	}
	if len(buckets) == 0 {
		return nil, ErrNoBuckets
	}

	slices.SortFunc(buckets, func(a, b *bucket) int {
		if c := strings.Compare(a.section.Name, b.section.Name); c != 0 {
			return c
		}
		return a.n - b.n
	})

	s.manifest = &sections.Manifest{}
	for _, b := range buckets {
		if len(s.manifest.Sections) == 0 || s.manifest.Sections[len(s.manifest.Sections)-1] != b.section.Section {
			b.section.Index = len(s.manifest.Sections)
			s.manifest.Sections = append(s.manifest.Sections, b.section.Section)
		}
	}

	return buckets, s.fillContent(buckets)
}

// fillContent sets the bucket characters of discovered sections once the
// bucket files are known. It reads only the first entry of each file.
func (s *SearchIndex) fillContent(buckets []*bucket) error {
	for _, b := range buckets {
		f, err := openBucket(b.path)
		if err != nil {
			return err
		}
		sc, err := searchdata.NewScanner(f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("reading %q: %w", b.path, err)
		}
		first := '?'
		if sc.Scan() {
			if c, _ := utf8.DecodeRuneInString(sc.Entry().Keyword()); c != utf8.RuneError {
				first = unicode.ToLower(c)
			}
		}
		err = sc.Err()
		_ = sc.Close()
		if err != nil {
			return fmt.Errorf("reading %q: %w", b.path, err)
		}
		b.section.Content += string(first)
	}
	return nil
}

// unionSection returns a section holding the entries of every section.
func (s *SearchIndex) unionSection() *section {
	all := &section{Section: &sections.Section{
		Index: -1,
		Name:  AllSection,
		Label: "All",
	}}
	for _, ms := range s.manifest.Sections {
		all.entries = append(all.entries, s.sections[ms.Name].entries...)
	}
	return all
}

// ParseBucketName parses a bucket file name such as "groups_1a.js" or
// "groups_1a.js.gz" and returns the section name and bucket number.
func ParseBucketName(name string) (string, int, bool) {
	for _, ext := range bucketExts {
		if base, ok := strings.CutSuffix(name, ".js"+ext); ok {
			i := strings.LastIndexByte(base, '_')
			if i <= 0 {
				return "", 0, false
			}
			n, err := strconv.ParseUint(base[i+1:], 16, 31)
			if err != nil {
				return "", 0, false
			}
			return base[:i], int(n), true
		}
	}
	return "", 0, false
}

// findBucket returns the path of a bucket file, which may be compressed.
func findBucket(path string) (string, error) {
	var err error
	for _, ext := range bucketExts {
		if _, err = os.Stat(path + ext); err == nil {
			return path + ext, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("opening bucket file: %w", err)
		}
	}
	return "", fmt.Errorf("opening bucket file: %w", err)
}

// openBucket opens a bucket file and decompresses it when it has a .gz or
// .dz extension. Dictzip files are valid gzip files.
func openBucket(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bucket file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".gz" && ext != ".dz" {
		return f, nil
	}

	z, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating gzip reader for %q: %w", path, err)
	}
	return &gzipFile{Reader: z, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (z *gzipFile) Close() error {
	return errors.Join(z.Reader.Close(), z.f.Close())
}

func readBucket(path string) (*searchdata.File, error) {
	r, err := openBucket(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := searchdata.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return f, nil
}

// Dir returns the path of the search directory.
func (s *SearchIndex) Dir() string {
	return s.dir
}

// Sections returns the sections listed in the manifest, ordered by index.
func (s *SearchIndex) Sections() []*sections.Section {
	return s.manifest.Sections
}

// Pages returns the store used to read linked pages.
func (s *SearchIndex) Pages() *pages.Store {
	return s.pages
}

// Entries returns the entries of a section in bucket order.
func (s *SearchIndex) Entries(name string) ([]*searchdata.Entry, error) {
	sec, err := s.section(name)
	if err != nil {
		return nil, err
	}
	return sec.entries, nil
}

func (s *SearchIndex) section(name string) (*section, error) {
	if name == "" {
		name = AllSection
	}
	sec, ok := s.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
	}
	return sec, nil
}

// Search returns the entries of a section whose keyword starts with the
// query. Keywords and the query are folded before comparison. An empty
// section name means the "all" section.
func (s *SearchIndex) Search(sectionName, query string) ([]*Result, error) {
	return s.find(sectionName, query, (*index.Index[*foldedEntry]).Prefix)
}

// Lookup returns the entries of a section whose keyword equals the query
// after folding.
func (s *SearchIndex) Lookup(sectionName, query string) ([]*Result, error) {
	return s.find(sectionName, query, (*index.Index[*foldedEntry]).Search)
}

func (s *SearchIndex) find(
	sectionName, query string,
	match func(*index.Index[*foldedEntry], string) []*foldedEntry,
) ([]*Result, error) {
	sec, err := s.section(sectionName)
	if err != nil {
		return nil, err
	}

	folded, err := folding.String(s.folder, query)
	if err != nil {
		return nil, fmt.Errorf("folding query %q: %w", query, err)
	}
	if folded == "" {
		return nil, nil
	}

	var results []*Result
	for _, w := range match(sec.index, folded) {
		results = append(results, newResult(sec.Name, w.entry))
	}
	return results, nil
}

// Close releases the full-text index if it was built.
func (s *SearchIndex) Close() error {
	if s.ft != nil {
		return s.ft.Close()
	}
	return nil
}
