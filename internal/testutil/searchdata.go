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
	"strings"

	"github.com/ianlewis/go-doxysearch/searchdata"
)

// MakeSearchData makes the contents of a bucket file in Doxygen's layout
// given a list of entries.
func MakeSearchData(entries []*searchdata.Entry) []byte {
	q := func(s string) string {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `'`, `\'`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		return "'" + s + "'"
	}

	var lines []string
	for _, e := range entries {
		var targets []string
		for _, t := range e.Targets {
			flag := 0
			if t.Local {
				flag = 1
			}
			targets = append(targets, fmt.Sprintf("[%s,%d,%s]", q(t.URL), flag, q(t.Scope)))
		}
		item := q(e.Name)
		if len(targets) > 0 {
			item += "," + strings.Join(targets, ",")
		}
		lines = append(lines, fmt.Sprintf("  [%s,[%s]]", q(e.ID), item))
	}

	b := "var searchData=\n[\n"
	if len(lines) > 0 {
		b += strings.Join(lines, ",\n") + "\n"
	}
	b += "];\n"
	return []byte(b)
}

// Target returns a local target.
func Target(url, scope string) *searchdata.Target {
	return &searchdata.Target{
		URL:   url,
		Local: true,
		Scope: scope,
	}
}

// Entry returns an entry for term with the given counter and targets.
func Entry(term string, counter int, name string, targets ...*searchdata.Target) *searchdata.Entry {
	return &searchdata.Entry{
		ID:      searchdata.EncodeID(term, counter),
		Name:    name,
		Targets: targets,
	}
}
