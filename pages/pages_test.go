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

package pages_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-doxysearch/internal/testutil"
	"github.com/ianlewis/go-doxysearch/pages"
)

const groupPage = `<html>
<head><title>MTI Bit Field Masks</title></head>
<body>
<div class="header">Navigation</div>
<div class="contents">
<a id="details" name="details"></a><h2 class="groupheader">Detailed Description</h2>
<p>Masks that extract fields from an MTI.</p>
<a id="ga1f2e3d" name="ga1f2e3d"></a>
<h2 class="memtitle">MASK_PRIORITY</h2>
<p>Priority bits.</p>
</div>
</body>
</html>`

const decoyPage = `<html>
<body>
<div class="sidebar"><span data-id="details">Unrelated sidebar text</span></div>
<div class="contents">
<h2 class="groupheader"><a id="details" name="details"></a>Detailed Description</h2>
<p>The real description.</p>
<div class="memitem"><a id="a0b1c2"></a><p>Next member.</p></div>
</div>
<hr class="footer"/><address class="footer">Generated by Doxygen</address>
</body>
</html>`

func TestStore_Text(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeTempSearchDir(t, nil, &testutil.MakeSearchDirOptions{
		Pages: map[string]string{
			"group__mti__field__masks.html": groupPage,
			"decoy.html":                    decoyPage,
		},
	})
	s := pages.New(searchDir, nil)

	tests := []struct {
		name     string
		url      string
		contains []string
		excludes []string
		err      error
	}{
		{
			name:     "whole page",
			url:      "../group__mti__field__masks.html",
			contains: []string{"Detailed Description", "Masks that extract fields", "Priority bits."},
			excludes: []string{"Navigation"},
		},
		{
			name:     "anchor",
			url:      "../group__mti__field__masks.html#details",
			contains: []string{"Masks that extract fields"},
			excludes: []string{"Priority bits."},
		},
		{
			name:     "member anchor",
			url:      "../group__mti__field__masks.html#ga1f2e3d",
			contains: []string{"MASK_PRIORITY", "Priority bits."},
			excludes: []string{"Masks that extract fields"},
		},
		{
			name:     "anchor after look-alike attribute",
			url:      "../decoy.html#details",
			contains: []string{"Detailed Description", "The real description."},
			excludes: []string{"Unrelated sidebar text", "Next member.", "Generated by Doxygen"},
		},
		{
			name:     "nested member anchor",
			url:      "../decoy.html#a0b1c2",
			contains: []string{"Next member."},
			excludes: []string{"The real description.", "Generated by Doxygen"},
		},
		{
			name:     "whole page without sidebar",
			url:      "../decoy.html",
			contains: []string{"The real description.", "Next member."},
			excludes: []string{"Unrelated sidebar text"},
		},
		{
			name: "missing anchor",
			url:  "../group__mti__field__masks.html#nope",
			err:  pages.ErrAnchorNotFound,
		},
		{
			name: "missing page",
			url:  "../group__none.html",
			err:  os.ErrNotExist,
		},
		{
			name: "external",
			url:  "https://example.com/index.html",
			err:  pages.ErrExternal,
		},
		{
			name: "outside html dir",
			url:  "../../secret.html",
			err:  pages.ErrExternal,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			text, err := s.Text(test.url)
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Fatalf("Text: got %v, want %v", err, test.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			for _, c := range test.contains {
				if !strings.Contains(text, c) {
					t.Errorf("Text: %q does not contain %q", text, c)
				}
			}
			for _, c := range test.excludes {
				if strings.Contains(text, c) {
					t.Errorf("Text: %q unexpectedly contains %q", text, c)
				}
			}
		})
	}
}

func TestStore_Text_limit(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeTempSearchDir(t, nil, &testutil.MakeSearchDirOptions{
		Pages: map[string]string{
			"accents.html": `<div class="contents"><a id="x"></a><p>` + strings.Repeat("é", 100) + `</p></div>`,
		},
	})

	tests := []struct {
		name  string
		limit int
		want  string
	}{
		{
			name:  "under limit",
			limit: 200,
			want:  strings.Repeat("é", 100),
		},
		{
			name:  "multibyte runes",
			limit: 5,
			want:  "ééééé",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			s := pages.New(searchDir, &pages.Options{MaxSectionRunes: test.limit})
			got, err := s.Text("../accents.html#x")
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Text (-want, +got):\n%s", diff)
			}
			if !utf8.ValidString(got) || strings.ContainsRune(got, utf8.RuneError) {
				t.Errorf("Text: invalid UTF-8 in %q", got)
			}
		})
	}
}
