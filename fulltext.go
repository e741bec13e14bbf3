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
	"errors"
	"fmt"
	"os"

	"github.com/k3a/html2text"

	"github.com/ianlewis/go-doxysearch/fulltext"
	"github.com/ianlewis/go-doxysearch/pages"
	"github.com/ianlewis/go-doxysearch/searchdata"
)

// FullTextResult is a full-text search hit. Each hit is a single target of
// an entry.
type FullTextResult struct {
	*Result

	// Target is the matching target.
	Target *searchdata.Target

	// Score is the relevance score. Higher is better.
	Score float64
}

type ftTarget struct {
	entry  *searchdata.Entry
	target *searchdata.Target
}

// FullTextSearch performs a full text search of the keywords, display names
// and scopes of the "all" section and returns up to maxResults hits ordered
// by score. When the index was opened with IndexPages the text of linked
// pages is searched as well. The full-text index is built on first use.
func (s *SearchIndex) FullTextSearch(query string, maxResults int) ([]*FullTextResult, error) {
	s.ftOnce.Do(func() {
		s.ft, s.ftDocs, s.ftErr = s.buildFullText()
	})
	if s.ftErr != nil {
		return nil, s.ftErr
	}

	hits, err := s.ft.Search(query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("full-text search for %q: %w", query, err)
	}

	var results []*FullTextResult
	for _, h := range hits {
		d, ok := s.ftDocs[h.ID]
		if !ok {
			continue
		}
		results = append(results, &FullTextResult{
			Result: newResult(AllSection, d.entry),
			Target: d.target,
			Score:  h.Score,
		})
	}
	return results, nil
}

func (s *SearchIndex) buildFullText() (*fulltext.Index, map[string]ftTarget, error) {
	sec, err := s.section(AllSection)
	if err != nil {
		return nil, nil, err
	}

	docsByID := map[string]ftTarget{}
	var docs []*fulltext.Document
	for i, e := range sec.entries {
		for j, t := range e.Targets {
			d := &fulltext.Document{
				ID:      fmt.Sprintf("%s/%d/%d", AllSection, i, j),
				Keyword: e.Keyword(),
				Name:    html2text.HTML2Text(e.Name),
				Scope:   html2text.HTML2Text(t.Scope),
				URL:     t.URL,
				Section: AllSection,
			}
			if s.indexPages && t.Local {
				text, err := s.pages.Text(t.URL)
				switch {
				case err == nil:
					d.Content = text
				case errors.Is(err, pages.ErrExternal),
					errors.Is(err, pages.ErrAnchorNotFound),
					errors.Is(err, os.ErrNotExist):
				default:
					return nil, nil, fmt.Errorf("reading page for %q: %w", e.Keyword(), err)
				}
			}
			docs = append(docs, d)
			docsByID[d.ID] = ftTarget{entry: e, target: t}
		}
	}

	ft, err := fulltext.New()
	if err != nil {
		return nil, nil, err
	}
	if err := ft.Add(docs); err != nil {
		_ = ft.Close()
		return nil, nil, err
	}
	return ft, docsByID, nil
}
