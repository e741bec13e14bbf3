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

package fulltext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestIndex(t *testing.T, docs []*Document) *Index {
	t.Helper()

	idx, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = idx.Close()
	})
	if err := idx.Add(docs); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return idx
}

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	docs := []*Document{
		{
			ID:      "groups/0/0",
			Keyword: "mti bit field masks",
			Name:    "MTI Bit Field Masks",
			URL:     "../group__mti__field__masks.html",
			Section: "groups",
			Content: "Masks that extract fields from a message type indicator.",
		},
		{
			ID:      "groups/1/0",
			Keyword: "memory layout",
			Name:    "Memory Layout",
			Scope:   "ACDI User Space Memory Layout",
			URL:     "../group__acdi__user__layout.html",
			Section: "groups",
		},
		{
			ID:      "groups/2/0",
			Keyword: "datagram protocol",
			Name:    "Datagram Protocol MTI Codes",
			URL:     "../group__mti__datagram.html",
			Section: "groups",
		},
	}
	idx := newTestIndex(t, docs)

	tests := []struct {
		name  string
		query string
		first *Document
	}{
		{
			name:  "name match",
			query: "masks",
			first: docs[0],
		},
		{
			name:  "scope match",
			query: "acdi",
			first: docs[1],
		},
		{
			name:  "content match",
			query: "indicator",
			first: docs[0],
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			hits, err := idx.Search(test.query, 5)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(hits) == 0 {
				t.Fatalf("Search(%q): no hits", test.query)
			}
			if diff := cmp.Diff(*test.first, hits[0].Document); diff != "" {
				t.Fatalf("Search(%q) first hit (-want, +got):\n%s", test.query, diff)
			}
			if hits[0].Score <= 0 {
				t.Fatalf("Search(%q): unexpected score %v", test.query, hits[0].Score)
			}
		})
	}
}

func TestIndex_Search_noResults(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t, []*Document{
		{ID: "a", Keyword: "hoge", Name: "hoge", URL: "../hoge.html"},
	})

	hits, err := idx.Search("fuga", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("Search: got %d hits, want 0", len(hits))
	}

	if _, err := idx.Search("", 10); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("Search: got %v, want %v", err, ErrEmptyQuery)
	}
}

func TestIndex_Add_batches(t *testing.T) {
	t.Parallel()

	var docs []*Document
	for i := range 250 {
		docs = append(docs, &Document{
			ID:      fmt.Sprintf("all/%d", i),
			Keyword: fmt.Sprintf("keyword%d", i),
			Name:    fmt.Sprintf("Keyword %d", i),
			URL:     fmt.Sprintf("../page%d.html", i),
		})
	}
	idx := newTestIndex(t, docs)

	n, err := idx.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != uint64(len(docs)) {
		t.Fatalf("Count: got %d, want %d", n, len(docs))
	}
}
