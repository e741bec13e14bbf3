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

package searchdata

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ianlewis/go-doxysearch/internal/jslit"
)

var (
	// ErrSyntax indicates a malformed bucket file.
	ErrSyntax = jslit.ErrSyntax

	// ErrPrelude indicates that the file does not start with the
	// "var searchData=" statement.
	ErrPrelude = errors.New("missing searchData prelude")
)

// Scanner scans a bucket file from start to end.
type Scanner struct {
	r   io.ReadCloser
	lex *jslit.Lexer

	entry *Entry
	count int
	done  bool
	err   error
}

// NewScanner returns a new Scanner that reads entries from r. The prelude is
// read immediately. The Scanner assumes ownership of the reader and should
// be closed with the Close method.
func NewScanner(r io.ReadCloser) (*Scanner, error) {
	s := &Scanner{
		r:   r,
		lex: jslit.NewLexer(r),
	}

	for _, want := range []string{"var", "searchData", "=", "["} {
		if _, err := s.lex.Expect(want); err != nil {
			if errors.Is(err, jslit.ErrSyntax) {
				return nil, fmt.Errorf("%w: %w", ErrPrelude, err)
			}
			return nil, err
		}
	}

	return s, nil
}

// Scan advances the scanner to the next entry. It returns false if the scan
// stops either by reaching the end of the array or an error.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}

	s.entry = nil
	if s.count > 0 {
		ok, err := s.lex.Accept(",")
		if err != nil {
			s.err = err
			return false
		}
		if !ok {
			// The only other valid token is the closing bracket.
			s.err = s.finish()
			return false
		}
	}

	end, err := s.lex.Accept("]")
	if err != nil {
		s.err = err
		return false
	}
	if end {
		s.err = s.trailer()
		return false
	}

	e, err := s.scanEntry()
	if err != nil {
		s.err = err
		return false
	}
	s.entry = e
	s.count++
	return true
}

// Entry returns the most recent entry generated by a call to Scan.
func (s *Scanner) Entry() *Entry {
	return s.entry
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	return s.err
}

// Close closes the underlying reader.
func (s *Scanner) Close() error {
	if err := s.r.Close(); err != nil {
		return fmt.Errorf("closing search data file: %w", err)
	}
	return nil
}

// finish consumes the closing bracket and the trailer.
func (s *Scanner) finish() error {
	if _, err := s.lex.Expect("]"); err != nil {
		return err
	}
	return s.trailer()
}

// trailer consumes an optional semicolon and requires the end of input.
func (s *Scanner) trailer() error {
	s.done = true
	if _, err := s.lex.Accept(";"); err != nil {
		return err
	}
	if _, err := s.lex.ExpectKind(jslit.EOF); err != nil {
		return err
	}
	return nil
}

// scanEntry scans ['id',['name',[url,flag,scope],...]].
func (s *Scanner) scanEntry() (*Entry, error) {
	if _, err := s.lex.Expect("["); err != nil {
		return nil, err
	}
	id, err := s.lex.ExpectKind(jslit.String)
	if err != nil {
		return nil, err
	}
	if _, err := s.lex.Expect(","); err != nil {
		return nil, err
	}
	if _, err := s.lex.Expect("["); err != nil {
		return nil, err
	}
	name, err := s.lex.ExpectKind(jslit.String)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		ID:   id.Text,
		Name: name.Text,
	}
	for {
		ok, err := s.lex.Accept(",")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t, err := s.scanTarget()
		if err != nil {
			return nil, err
		}
		e.Targets = append(e.Targets, t)
	}

	if _, err := s.lex.Expect("]"); err != nil {
		return nil, err
	}
	if _, err := s.lex.Expect("]"); err != nil {
		return nil, err
	}
	return e, nil
}

// scanTarget scans ['url',flag,'scope'].
func (s *Scanner) scanTarget() (*Target, error) {
	if _, err := s.lex.Expect("["); err != nil {
		return nil, err
	}
	url, err := s.lex.ExpectKind(jslit.String)
	if err != nil {
		return nil, err
	}
	if _, err := s.lex.Expect(","); err != nil {
		return nil, err
	}
	flag, err := s.lex.Next()
	if err != nil {
		return nil, err
	}
	var local bool
	switch {
	case flag.Kind == jslit.Number:
		v, err := strconv.ParseFloat(flag.Text, 64)
		if err != nil {
			return nil, s.lex.Errorf(flag, "invalid link flag %s", flag)
		}
		local = v != 0
	case flag.Is("true"):
		local = true
	case flag.Is("false"), flag.Is("null"):
	default:
		return nil, s.lex.Errorf(flag, "expected link flag, found %s", flag)
	}
	if _, err := s.lex.Expect(","); err != nil {
		return nil, err
	}
	scope, err := s.lex.ExpectKind(jslit.String)
	if err != nil {
		return nil, err
	}
	if _, err := s.lex.Expect("]"); err != nil {
		return nil, err
	}

	return &Target{
		URL:   url.Text,
		Local: local,
		Scope: scope.Text,
	}, nil
}
