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

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-doxysearch/searchdata"
)

// Section is a test search section.
type Section struct {
	Name    string
	Label   string
	Entries []*searchdata.Entry
}

// MakeSearchDirOptions are options for MakeTempSearchDir.
type MakeSearchDirOptions struct {
	// DictZip indicates that bucket files should be compressed with DictZip
	// and written with a '.js.dz' extension.
	DictZip bool

	// Pages are HTML pages written to the parent of the search directory,
	// keyed by file name.
	Pages map[string]string

	// NoManifest omits searchdata.js.
	NoManifest bool
}

// MakeTempSearchDir writes a Doxygen search directory under a temporary html
// directory and returns the path of the search directory. Entries are
// grouped into buckets by the first character of their keyword.
func MakeTempSearchDir(t *testing.T, sections []*Section, opts *MakeSearchDirOptions) string {
	t.Helper()
	if opts == nil {
		opts = &MakeSearchDirOptions{}
	}

	htmlDir := filepath.Join(t.TempDir(), "html")
	searchDir := filepath.Join(htmlDir, "search")
	if err := os.MkdirAll(searchDir, 0o755); err != nil {
		t.Fatal(err)
	}

	for name, contents := range opts.Pages {
		writeFile(t, filepath.Join(htmlDir, name), []byte(contents), false)
	}

	var content, names, labels []string
	for i, s := range sections {
		buckets := map[rune][]*searchdata.Entry{}
		for _, e := range s.Entries {
			first, _ := utf8.DecodeRuneInString(e.Keyword())
			first = unicode.ToLower(first)
			buckets[first] = append(buckets[first], e)
		}
		var chars []rune
		for c := range buckets {
			chars = append(chars, c)
		}
		slices.Sort(chars)

		for n, c := range chars {
			name := fmt.Sprintf("%s_%x.js", s.Name, n)
			writeFile(t, filepath.Join(searchDir, name), MakeSearchData(buckets[c]), opts.DictZip)
		}

		content = append(content, fmt.Sprintf("  %d: %q", i, string(chars)))
		names = append(names, fmt.Sprintf("  %d: %q", i, s.Name))
		labels = append(labels, fmt.Sprintf("  %d: %q", i, s.Label))
	}

	if !opts.NoManifest {
		var sb strings.Builder
		for _, v := range []struct {
			name   string
			values []string
		}{
			{"indexSectionsWithContent", content},
			{"indexSectionNames", names},
			{"indexSectionLabels", labels},
		} {
			fmt.Fprintf(&sb, "var %s =\n{\n%s\n};\n\n", v.name, strings.Join(v.values, ",\n"))
		}
		writeFile(t, filepath.Join(searchDir, "searchdata.js"), []byte(sb.String()), false)
	}

	return searchDir
}

func writeFile(t *testing.T, path string, b []byte, dz bool) {
	t.Helper()

	if !dz {
		if err := os.WriteFile(path, b, 0o600); err != nil {
			t.Fatal(err)
		}
		return
	}

	f, err := os.Create(path + ".dz")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	z, err := dictzip.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := z.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
}
