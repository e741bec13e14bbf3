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

package builder

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ianlewis/go-doxysearch"
	"github.com/ianlewis/go-doxysearch/searchdata"
)

const schemaURL = "https://github.com/ianlewis/go-doxysearch/records.schema.json"

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidRecords indicates records that do not match the record schema or
// violate the search data invariants.
var ErrInvalidRecords = errors.New("invalid records")

// Target is a link from a record into the documentation.
type Target struct {
	URL   string `json:"url"`
	Local bool   `json:"local"`
	Scope string `json:"scope,omitempty"`
}

// Record is a keyword and its links. It is the neutral form of a search
// entry used to regenerate a search directory.
type Record struct {
	// Term is the search term. It is lower-cased when encoded.
	Term string `json:"term"`

	// Name is the HTML-escaped display name.
	Name string `json:"name"`

	// Section is the search section, e.g. "groups". Every record is also
	// part of the "all" section. An empty section means "all" only.
	Section string `json:"section,omitempty"`

	Targets []*Target `json:"targets"`
}

// Document is the JSON document holding records.
type Document struct {
	Records []*Record `json:"records"`
}

// SchemaError is returned by Load when the document does not match the
// record schema.
type SchemaError struct {
	// Problems are the messages of the failing schema keywords, prefixed
	// with the JSON path of the instance.
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidRecords, strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidRecords
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing record schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding record schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling record schema: %w", err)
	}
	return schema, nil
})

// Load reads a JSON document of records from r and validates it against the
// record schema.
func Load(r io.Reader) ([]*Record, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			p := message.NewPrinter(language.English)
			return nil, &SchemaError{Problems: schemaProblems(p, verr)}
		}
		return nil, fmt.Errorf("validating records: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return doc.Records, nil
}

// schemaProblems flattens a validation error into the messages of its leaf
// causes.
func schemaProblems(p *message.Printer, verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		path := "$"
		if len(verr.InstanceLocation) > 0 {
			path = "$." + strings.Join(verr.InstanceLocation, ".")
		}
		return []string{fmt.Sprintf("%s: %s", path, verr.ErrorKind.LocalizedString(p))}
	}

	var problems []string
	for _, cause := range verr.Causes {
		problems = append(problems, schemaProblems(p, cause)...)
	}
	return problems
}

// Write writes records to w as an indented JSON document.
func Write(w io.Writer, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&Document{Records: records}); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// Records returns the records of a loaded search index. Entries of named
// sections become records of that section. Targets that appear only in the
// "all" section become records without a section.
func Records(idx *doxysearch.SearchIndex) ([]*Record, error) {
	type key struct{ term, name, url string }
	seen := map[key]bool{}

	var records []*Record
	for _, sec := range idx.Sections() {
		if sec.Name == doxysearch.AllSection {
			continue
		}
		entries, err := idx.Entries(sec.Name)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			rec := newRecord(sec.Name, e, e.Targets)
			for _, t := range e.Targets {
				seen[key{rec.Term, rec.Name, t.URL}] = true
			}
			records = append(records, rec)
		}
	}

	entries, err := idx.Entries(doxysearch.AllSection)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		var targets []*searchdata.Target
		for _, t := range e.Targets {
			if !seen[key{e.Keyword(), e.Name, t.URL}] {
				targets = append(targets, t)
			}
		}
		if len(targets) > 0 {
			records = append(records, newRecord("", e, targets))
		}
	}

	return records, nil
}

func newRecord(section string, e *searchdata.Entry, targets []*searchdata.Target) *Record {
	rec := &Record{
		Term:    e.Keyword(),
		Name:    e.Name,
		Section: section,
	}
	for _, t := range targets {
		rec.Targets = append(rec.Targets, &Target{
			URL:   t.URL,
			Local: t.Local,
			Scope: t.Scope,
		})
	}
	return rec
}
