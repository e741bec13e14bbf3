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

// Package sections implements reading and writing the searchdata.js manifest
// of a Doxygen search directory.
//
// The manifest assigns three object literals keyed by section index:
//
//	var indexSectionsWithContent = { 0: "abc", ... };
//	var indexSectionNames = { 0: "all", ... };
//	var indexSectionLabels = { 0: "All", ... };
//
// indexSectionsWithContent lists, for each section, the first characters of
// the keywords in that section. The n-th character has its keywords in the
// bucket file <name>_<n in hex>.js.
package sections

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ianlewis/go-doxysearch/internal/jslit"
)

// FileName is the name of the manifest file in a search directory.
const FileName = "searchdata.js"

const (
	varContent = "indexSectionsWithContent"
	varNames   = "indexSectionNames"
	varLabels  = "indexSectionLabels"
)

var (
	// ErrSyntax indicates a malformed manifest.
	ErrSyntax = jslit.ErrSyntax

	// errMissingName indicates a section without a name.
	errMissingName = errors.New("section has no name")
)

// Section is a search section such as "all", "classes" or "groups".
type Section struct {
	// Index is the section's key in the manifest objects.
	Index int

	// Name is the section name used in bucket file names.
	Name string

	// Label is the human-readable name of the section.
	Label string

	// Content holds the first characters that have a bucket file, in bucket
	// order.
	Content string
}

// Buckets returns the bucket characters in order.
func (s *Section) Buckets() []rune {
	return []rune(s.Content)
}

// BucketFile returns the file name of bucket n.
func (s *Section) BucketFile(n int) string {
	return fmt.Sprintf("%s_%x.js", s.Name, n)
}

// BucketFor returns the bucket that holds keywords starting with the first
// character of term.
func (s *Section) BucketFor(term string) (int, bool) {
	first, _ := utf8.DecodeRuneInString(term)
	if first == utf8.RuneError {
		return 0, false
	}
	first = unicode.ToLower(first)
	for i, c := range s.Buckets() {
		if c == first {
			return i, true
		}
	}
	return 0, false
}

// Manifest is a decoded searchdata.js file.
type Manifest struct {
	// Sections is ordered by Index.
	Sections []*Section
}

// Section returns the section with the given name or nil.
func (m *Manifest) Section(name string) *Section {
	for _, s := range m.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Open reads the manifest in the given search directory.
func Open(searchDir string) (*Manifest, error) {
	path := filepath.Join(searchDir, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return m, nil
}

// Decode reads a manifest from r.
func Decode(r io.Reader) (*Manifest, error) {
	lex := jslit.NewLexer(r)

	byIndex := map[int]*Section{}
	get := func(i int) *Section {
		s, ok := byIndex[i]
		if !ok {
			s = &Section{Index: i}
			byIndex[i] = s
		}
		return s
	}

	for {
		t, err := lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == jslit.EOF {
			break
		}

		name, values, err := decodeVar(lex)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			switch name {
			case varContent:
				get(i).Content = v
			case varNames:
				get(i).Name = v
			case varLabels:
				get(i).Label = v
			}
		}
	}

	m := &Manifest{}
	for _, s := range byIndex {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: %d", errMissingName, s.Index)
		}
		m.Sections = append(m.Sections, s)
	}
	slices.SortFunc(m.Sections, func(a, b *Section) int {
		return a.Index - b.Index
	})
	return m, nil
}

// decodeVar decodes var <name> = { <int>: "<string>", ... };
func decodeVar(lex *jslit.Lexer) (string, map[int]string, error) {
	if _, err := lex.Expect("var"); err != nil {
		return "", nil, err
	}
	name, err := lex.ExpectKind(jslit.Ident)
	if err != nil {
		return "", nil, err
	}
	if _, err := lex.Expect("="); err != nil {
		return "", nil, err
	}
	if _, err := lex.Expect("{"); err != nil {
		return "", nil, err
	}

	values := map[int]string{}
	for {
		if ok, err := lex.Accept("}"); err != nil {
			return "", nil, err
		} else if ok {
			break
		}

		key, err := lex.ExpectKind(jslit.Number)
		if err != nil {
			return "", nil, err
		}
		i, err := strconv.Atoi(key.Text)
		if err != nil || i < 0 {
			return "", nil, lex.Errorf(key, "invalid section index %s", key)
		}
		if _, err := lex.Expect(":"); err != nil {
			return "", nil, err
		}
		v, err := lex.ExpectKind(jslit.String)
		if err != nil {
			return "", nil, err
		}
		values[i] = v.Text

		ok, err := lex.Accept(",")
		if err != nil {
			return "", nil, err
		}
		if !ok {
			if _, err := lex.Expect("}"); err != nil {
				return "", nil, err
			}
			break
		}
	}

	if _, err := lex.Accept(";"); err != nil {
		return "", nil, err
	}
	return name.Text, values, nil
}

// Encode writes m to w in the layout Doxygen uses.
func Encode(w io.Writer, m *Manifest) error {
	bw := bufio.NewWriter(w)
	for _, v := range []struct {
		name  string
		value func(*Section) string
	}{
		{varContent, func(s *Section) string { return s.Content }},
		{varNames, func(s *Section) string { return s.Name }},
		{varLabels, func(s *Section) string { return s.Label }},
	} {
		fmt.Fprintf(bw, "var %s =\n{\n", v.name)
		for i, s := range m.Sections {
			fmt.Fprintf(bw, "  %d: \"%s\"", s.Index, escape(v.value(s)))
			if i < len(m.Sections)-1 {
				bw.WriteString(",")
			}
			bw.WriteString("\n")
		}
		bw.WriteString("};\n\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func escape(s string) string {
	return jslit.Escape(s, `"`)
}
