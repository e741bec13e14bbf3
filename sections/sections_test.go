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

package sections

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const manifest = `var indexSectionsWithContent =
{
  0: "_abcdm",
  1: "cm"
};

var indexSectionNames =
{
  0: "all",
  1: "groups"
};

var indexSectionLabels =
{
  0: "All",
  1: "Topics"
};

`

func TestDecode(t *testing.T) {
	t.Parallel()

	m, err := Decode(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := &Manifest{
		Sections: []*Section{
			{Index: 0, Name: "all", Label: "All", Content: "_abcdm"},
			{Index: 1, Name: "groups", Label: "Topics", Content: "cm"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("Decode (-want, +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if diff := cmp.Diff(manifest, buf.String()); diff != "" {
		t.Fatalf("Encode (-want, +got):\n%s", diff)
	}
}

func TestEncode_escapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		label string
	}{
		{name: "double quote", label: `Say "hi"`},
		{name: "single quote", label: "Ian's Files"},
		{name: "backslash", label: `C:\docs\`},
		{name: "newline", label: "Two\nLines"},
		{name: "tab and carriage return", label: "a\tb\r"},
		{name: "other control", label: "a\x01b\x1b"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			want := &Manifest{
				Sections: []*Section{
					{Index: 0, Name: "all", Label: test.label, Content: "a"},
				},
			}

			var buf bytes.Buffer
			if err := Encode(&buf, want); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("round trip (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_layout(t *testing.T) {
	t.Parallel()

	input := `var indexSectionNames={0:"all",2:"files",};
var indexSectionLabels={0:"All",2:"Files"}
var indexSectionsWithContent={2:"o",0:"éo"};
var somethingElse={0:"ignored"};`

	m, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := &Manifest{
		Sections: []*Section{
			{Index: 0, Name: "all", Label: "All", Content: "éo"},
			{Index: 2, Name: "files", Label: "Files", Content: "o"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("Decode (-want, +got):\n%s", diff)
	}
}

func TestDecode_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{
			name:     "not a var",
			input:    `indexSectionNames = {0: "all"};`,
			expected: ErrSyntax,
		},
		{
			name:     "string key",
			input:    `var indexSectionNames = {"0": "all"};`,
			expected: ErrSyntax,
		},
		{
			name:     "unterminated object",
			input:    `var indexSectionNames = {0: "all"`,
			expected: ErrSyntax,
		},
		{
			name:     "missing name",
			input:    `var indexSectionLabels = {0: "All"};`,
			expected: errMissingName,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(test.input))
			if !errors.Is(err, test.expected) {
				t.Fatalf("Decode: got %v, want %v", err, test.expected)
			}
		})
	}
}

func TestSection_Buckets(t *testing.T) {
	t.Parallel()

	s := &Section{Name: "all", Content: "_abcdefghijklmnoprstuvw"}

	tests := []struct {
		term  string
		n     int
		found bool
		file  string
	}{
		{term: "_can_frame", n: 0, found: true, file: "all_0.js"},
		{term: "Masks", n: 13, found: true, file: "all_d.js"},
		{term: "write", n: 22, found: true, file: "all_16.js"},
		{term: "queue", found: false},
		{term: "", found: false},
	}

	for _, test := range tests {
		t.Run(test.term, func(t *testing.T) {
			t.Parallel()

			n, found := s.BucketFor(test.term)
			if found != test.found {
				t.Fatalf("BucketFor(%q) found: got %v, want %v", test.term, found, test.found)
			}
			if !found {
				return
			}
			if n != test.n {
				t.Fatalf("BucketFor(%q): got %d, want %d", test.term, n, test.n)
			}
			if got := s.BucketFile(n); got != test.file {
				t.Fatalf("BucketFile(%d): got %q, want %q", n, got, test.file)
			}
		})
	}
}
