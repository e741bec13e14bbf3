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

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ianlewis/go-doxysearch"
)

const (
	defaultMaxResults = 20
	maxMaxResults     = 100
)

// LookupKeywordInput defines input for the lookup_keyword tool.
type LookupKeywordInput struct {
	Query      string `json:"query" jsonschema:"Keyword or keyword prefix to look up, e.g. 'masks' or 'can_'"`
	Exact      bool   `json:"exact,omitempty" jsonschema:"Match the whole keyword instead of a prefix (optional, defaults to false)"`
	Section    string `json:"section,omitempty" jsonschema:"Search section such as 'groups' or 'classes' (optional, defaults to 'all')"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 20)"`
}

// Target is a link to a documentation page.
type Target struct {
	URL   string `json:"url"`
	Scope string `json:"scope,omitempty"`
	Local bool   `json:"local"`

	// Path is the file path of the linked page, if it is local.
	Path string `json:"path,omitempty"`
}

// KeywordResult is a matching keyword.
type KeywordResult struct {
	Directory string   `json:"directory"`
	Section   string   `json:"section"`
	Keyword   string   `json:"keyword"`
	Name      string   `json:"name"`
	Targets   []Target `json:"targets"`
}

// LookupKeywordOutput defines output for the lookup_keyword tool.
type LookupKeywordOutput struct {
	Results []KeywordResult `json:"results"`

	// Total is the number of matches before truncation.
	Total int `json:"total"`
}

// SearchDocumentationInput defines input for the search_documentation tool.
type SearchDocumentationInput struct {
	Query      string `json:"query" jsonschema:"Free text to search for in keyword names, scopes and page text"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 20)"`
}

// DocumentationResult is a full-text search hit.
type DocumentationResult struct {
	Directory string  `json:"directory"`
	Keyword   string  `json:"keyword"`
	Name      string  `json:"name"`
	Target    Target  `json:"target"`
	Score     float64 `json:"score"`
}

// SearchDocumentationOutput defines output for the search_documentation tool.
type SearchDocumentationOutput struct {
	Results []DocumentationResult `json:"results"`
}

// ListSectionsInput defines input for the list_sections tool.
type ListSectionsInput struct{}

// Section describes a search section.
type Section struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Entries int    `json:"entries"`
}

// Directory describes a loaded search directory.
type Directory struct {
	Directory string    `json:"directory"`
	Sections  []Section `json:"sections"`
}

// ListSectionsOutput defines output for the list_sections tool.
type ListSectionsOutput struct {
	Directories []Directory `json:"directories"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server,
		&mcp.Tool{
			Name:        "lookup_keyword",
			Description: "Look up documented symbols, groups and pages by keyword prefix, like the Doxygen search box. Returns the keyword's links into the documentation.",
		},
		s.LookupKeyword,
	)

	mcp.AddTool(s.server,
		&mcp.Tool{
			Name:        "search_documentation",
			Description: "Full-text search over keyword names, scopes and, when enabled, documentation page text. Returns the best matching links with a relevance score.",
		},
		s.SearchDocumentation,
	)

	mcp.AddTool(s.server,
		&mcp.Tool{
			Name:        "list_sections",
			Description: "List the loaded documentation search directories and their search sections.",
		},
		s.ListSections,
	)
}

func clampMaxResults(n int) int {
	if n <= 0 {
		return defaultMaxResults
	}
	return min(n, maxMaxResults)
}

func newTarget(idx *doxysearch.SearchIndex, url, scope string, local bool) Target {
	t := Target{
		URL:   url,
		Scope: scope,
		Local: local,
	}
	if local {
		if p, err := idx.Pages().Path(url); err == nil {
			t.Path = p
		}
	}
	return t
}

// LookupKeyword implements the lookup_keyword tool.
func (s *Server) LookupKeyword(_ context.Context, _ *mcp.CallToolRequest, input LookupKeywordInput) (*mcp.CallToolResult, LookupKeywordOutput, error) {
	if input.Query == "" {
		return nil, LookupKeywordOutput{}, errors.New("query is required")
	}

	set, release := s.acquire()
	defer release()

	maxResults := clampMaxResults(input.MaxResults)
	output := LookupKeywordOutput{Results: []KeywordResult{}}
	found := false
	for _, idx := range set.indexes {
		find := idx.Search
		if input.Exact {
			find = idx.Lookup
		}
		results, err := find(input.Section, input.Query)
		if errors.Is(err, doxysearch.ErrSectionNotFound) {
			continue
		}
		if err != nil {
			return nil, LookupKeywordOutput{}, fmt.Errorf("searching %q: %w", idx.Dir(), err)
		}
		found = true

		output.Total += len(results)
		for _, r := range results {
			if len(output.Results) >= maxResults {
				break
			}
			kr := KeywordResult{
				Directory: idx.Dir(),
				Section:   r.Section,
				Keyword:   r.Keyword,
				Name:      r.Title(),
				Targets:   []Target{},
			}
			for _, t := range r.Targets {
				kr.Targets = append(kr.Targets, newTarget(idx, t.URL, t.Scope, t.Local))
			}
			output.Results = append(output.Results, kr)
		}
	}
	if !found && len(set.indexes) > 0 {
		return nil, LookupKeywordOutput{}, fmt.Errorf("%w: %q", doxysearch.ErrSectionNotFound, input.Section)
	}

	s.logger.Debug("lookup_keyword",
		zap.String("query", input.Query),
		zap.Bool("exact", input.Exact),
		zap.Int("total", output.Total),
	)
	return nil, output, nil
}

// SearchDocumentation implements the search_documentation tool.
func (s *Server) SearchDocumentation(_ context.Context, _ *mcp.CallToolRequest, input SearchDocumentationInput) (*mcp.CallToolResult, SearchDocumentationOutput, error) {
	if input.Query == "" {
		return nil, SearchDocumentationOutput{}, errors.New("query is required")
	}

	set, release := s.acquire()
	defer release()

	maxResults := clampMaxResults(input.MaxResults)
	output := SearchDocumentationOutput{Results: []DocumentationResult{}}
	for _, idx := range set.indexes {
		results, err := idx.FullTextSearch(input.Query, maxResults)
		if err != nil {
			return nil, SearchDocumentationOutput{}, fmt.Errorf("searching %q: %w", idx.Dir(), err)
		}
		for _, r := range results {
			output.Results = append(output.Results, DocumentationResult{
				Directory: idx.Dir(),
				Keyword:   r.Keyword,
				Name:      r.Title(),
				Target:    newTarget(idx, r.Target.URL, r.Target.Scope, r.Target.Local),
				Score:     r.Score,
			})
		}
	}

	// Merge the hits of all directories by score.
	slices.SortStableFunc(output.Results, func(a, b DocumentationResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(output.Results) > maxResults {
		output.Results = output.Results[:maxResults]
	}

	s.logger.Debug("search_documentation",
		zap.String("query", input.Query),
		zap.Int("results", len(output.Results)),
	)
	return nil, output, nil
}

// ListSections implements the list_sections tool.
func (s *Server) ListSections(_ context.Context, _ *mcp.CallToolRequest, _ ListSectionsInput) (*mcp.CallToolResult, ListSectionsOutput, error) {
	set, release := s.acquire()
	defer release()

	output := ListSectionsOutput{Directories: []Directory{}}
	for _, idx := range set.indexes {
		d := Directory{
			Directory: idx.Dir(),
			Sections:  []Section{},
		}
		for _, sec := range idx.Sections() {
			entries, err := idx.Entries(sec.Name)
			if err != nil {
				return nil, ListSectionsOutput{}, err
			}
			d.Sections = append(d.Sections, Section{
				Name:    sec.Name,
				Label:   sec.Label,
				Entries: len(entries),
			})
		}
		output.Directories = append(output.Directories, d)
	}
	return nil, output, nil
}
