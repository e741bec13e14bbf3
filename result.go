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
	"strings"

	"github.com/k3a/html2text"

	"github.com/ianlewis/go-doxysearch/searchdata"
)

// Result is a keyword matched by a query.
type Result struct {
	// Keyword is the decoded search term.
	Keyword string

	// Name is the HTML-escaped display name.
	Name string

	// Section is the name of the section the entry was found in.
	Section string

	// Targets are the links for the keyword.
	Targets []*searchdata.Target

	// Entry is the underlying bucket file entry.
	Entry *searchdata.Entry
}

func newResult(sectionName string, e *searchdata.Entry) *Result {
	return &Result{
		Keyword: e.Keyword(),
		Name:    e.Name,
		Section: sectionName,
		Targets: e.Targets,
		Entry:   e,
	}
}

// Title returns the display name as plain text.
func (r *Result) Title() string {
	return html2text.HTML2Text(r.Name)
}

// String returns the display name followed by one line per target.
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(r.Title())
	sb.WriteString("\n")
	for _, t := range r.Targets {
		sb.WriteString("  ")
		sb.WriteString(t.URL)
		if t.Scope != "" {
			sb.WriteString(" (")
			sb.WriteString(html2text.HTML2Text(t.Scope))
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
