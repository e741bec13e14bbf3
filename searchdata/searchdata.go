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

package searchdata

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ianlewis/go-doxysearch/internal/jslit"
)

// Target is a link from a keyword into the generated documentation.
type Target struct {
	// URL is the link relative to the search directory, e.g.
	// "../group__mti__field__masks.html" or "../a.html#a1b2".
	URL string

	// Local is true when the link points into this documentation set. It is
	// false for links to external documentation imported from tag files.
	Local bool

	// Scope is the display label that disambiguates the link. It may be
	// empty.
	Scope string
}

// Page returns the URL without its anchor.
func (t *Target) Page() string {
	page, _, _ := strings.Cut(t.URL, "#")
	return page
}

// Anchor returns the URL fragment without the '#', if any.
func (t *Target) Anchor() string {
	_, anchor, _ := strings.Cut(t.URL, "#")
	return anchor
}

// Entry is a bucket file entry.
type Entry struct {
	// ID is the encoded keyword id.
	ID string

	// Name is the HTML-escaped display name.
	Name string

	// Targets is the ordered list of links for the keyword.
	Targets []*Target
}

// Keyword returns the decoded search term. If the id is malformed the raw id
// is returned.
func (e *Entry) Keyword() string {
	term, _, err := DecodeID(e.ID)
	if err != nil {
		return e.ID
	}
	return term
}

// String implements [fmt.Stringer].
func (e *Entry) String() string {
	return e.Keyword()
}

// File is a decoded bucket file.
type File struct {
	Entries []*Entry
}

// Decode reads a whole bucket file from r.
func Decode(r io.Reader) (*File, error) {
	s, err := NewScanner(io.NopCloser(r))
	if err != nil {
		return nil, err
	}

	f := &File{}
	for s.Scan() {
		f.Entries = append(f.Entries, s.Entry())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// Unmarshal decodes a bucket file from b.
func Unmarshal(b []byte) (*File, error) {
	return Decode(bytes.NewReader(b))
}

// Encode writes f to w in the layout Doxygen uses.
func Encode(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("var searchData=\n[\n")
	for i, e := range f.Entries {
		bw.WriteString("  ['")
		bw.WriteString(escape(e.ID))
		bw.WriteString("',['")
		bw.WriteString(escape(e.Name))
		bw.WriteString("'")
		for _, t := range e.Targets {
			flag := "0"
			if t.Local {
				flag = "1"
			}
			fmt.Fprintf(bw, ",['%s',%s,'%s']", escape(t.URL), flag, escape(t.Scope))
		}
		bw.WriteString("]]")
		if i < len(f.Entries)-1 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
	}
	bw.WriteString("];\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing search data: %w", err)
	}
	return nil
}

// Marshal encodes f into a byte slice.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escape(s string) string {
	return jslit.Escape(s, `'"`)
}
