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

// Package fulltext implements an in-memory full-text index over search
// entries and the text of the pages they link to.
package fulltext

import (
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// batchSize is the number of documents submitted per index batch.
const batchSize = 100

// ErrEmptyQuery indicates an empty search query.
var ErrEmptyQuery = errors.New("empty query")

// Document is an indexed search target.
type Document struct {
	// ID uniquely identifies the document in the index.
	ID string `json:"id"`

	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Scope   string `json:"scope"`
	URL     string `json:"url"`
	Section string `json:"section"`

	// Content is the plain text of the linked page section, if indexed.
	Content string `json:"content"`
}

// Hit is a search result.
type Hit struct {
	Document
	Score float64
}

// Index is a full-text index.
type Index struct {
	index bleve.Index
}

// New returns a new empty in-memory index.
func New() (*Index, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("creating full-text index: %w", err)
	}
	return &Index{index: index}, nil
}

func newMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Store = true

	keyword := bleve.NewKeywordFieldMapping()
	keyword.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("keyword", text)
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("scope", text)
	doc.AddFieldMappingsAt("content", text)
	doc.AddFieldMappingsAt("url", keyword)
	doc.AddFieldMappingsAt("section", keyword)
	doc.AddFieldMappingsAt("id", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Add indexes the documents in batches.
func (idx *Index) Add(docs []*Document) error {
	batch := idx.index.NewBatch()
	for i, d := range docs {
		if err := batch.Index(d.ID, d); err != nil {
			return fmt.Errorf("adding document %q to batch: %w", d.ID, err)
		}
		if (i+1)%batchSize == 0 {
			if err := idx.index.Batch(batch); err != nil {
				return fmt.Errorf("indexing batch: %w", err)
			}
			batch = idx.index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := idx.index.Batch(batch); err != nil {
			return fmt.Errorf("indexing batch: %w", err)
		}
	}
	return nil
}

// Count returns the number of indexed documents.
func (idx *Index) Count() (uint64, error) {
	n, err := idx.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Search runs a match query against the name, scope, keyword and content
// fields and returns up to size hits ordered by score.
func (idx *Index) Search(q string, size int) ([]*Hit, error) {
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if size <= 0 {
		size = 10
	}

	var fields []query.Query
	for field, boost := range map[string]float64{
		"name":    3,
		"keyword": 2,
		"scope":   1.5,
		"content": 1,
	} {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(field)
		mq.SetBoost(boost)
		fields = append(fields, mq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(fields...), size, 0, false)
	req.Fields = []string{"*"}

	res, err := idx.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	hits := make([]*Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := &Hit{
			Document: Document{ID: h.ID},
			Score:    h.Score,
		}
		for field, dst := range map[string]*string{
			"keyword": &hit.Keyword,
			"name":    &hit.Name,
			"scope":   &hit.Scope,
			"url":     &hit.URL,
			"section": &hit.Section,
			"content": &hit.Content,
		} {
			if v, ok := h.Fields[field].(string); ok {
				*dst = v
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the index.
func (idx *Index) Close() error {
	if err := idx.index.Close(); err != nil {
		return fmt.Errorf("closing full-text index: %w", err)
	}
	return nil
}
