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
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Severity is the severity of a validation problem.
type Severity int

const (
	// SeverityError is a violation of a structural invariant.
	SeverityError Severity = iota

	// SeverityWarning is a deviation from what Doxygen normally writes.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Problem is a validation problem found in a bucket file.
type Problem struct {
	Severity Severity

	// Index is the position of the entry in the file.
	Index int

	// ID is the keyword id of the entry.
	ID string

	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: entry %d (%q): %s", p.Severity, p.Index, p.ID, p.Message)
}

// ValidateOptions are options for Validate.
type ValidateOptions struct {
	// Bucket is the first character expected of every keyword in the file.
	// The zero value disables the check.
	Bucket rune
}

// DefaultValidateOptions is the default options for Validate.
var DefaultValidateOptions = &ValidateOptions{}

// urlRegex matches relative links of the form <token>.html[#anchor].
var urlRegex = regexp.MustCompile(`^(?:\.\./)*(?:[A-Za-z0-9_.\-]+/)*[A-Za-z0-9_.\-]+\.html(?:#[A-Za-z0-9_.:\-]+)?$`)

// ValidURL reports whether u is a relative documentation link.
func ValidURL(u string) bool {
	return urlRegex.MatchString(u)
}

// Validate checks the structural invariants of f and returns every problem
// found. A nil result means the file is valid.
func Validate(f *File, opts *ValidateOptions) []Problem {
	if opts == nil {
		opts = DefaultValidateOptions
	}

	var problems []Problem
	report := func(sev Severity, i int, e *Entry, format string, args ...any) {
		problems = append(problems, Problem{
			Severity: sev,
			Index:    i,
			ID:       e.ID,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	prev := ""
	for i, e := range f.Entries {
		term, counter, err := DecodeID(e.ID)
		switch {
		case e.ID == "":
			report(SeverityError, i, e, "empty keyword id")
		case err != nil:
			report(SeverityError, i, e, "%v", err)
		case term == "":
			report(SeverityError, i, e, "empty keyword")
		default:
			if counter != i {
				report(SeverityWarning, i, e, "counter %d does not match position", counter)
			}
			if i > 0 && prev != "" && strings.Compare(prev, term) > 0 {
				report(SeverityWarning, i, e, "keyword %q sorts before %q", term, prev)
			}
			if opts.Bucket != 0 {
				first, _ := utf8.DecodeRuneInString(term)
				if unicode.ToLower(first) != unicode.ToLower(opts.Bucket) {
					report(SeverityWarning, i, e, "keyword %q does not belong in bucket %q", term, opts.Bucket)
				}
			}
			prev = term
		}

		if e.Name == "" {
			report(SeverityError, i, e, "empty display name")
		}
		if len(e.Targets) == 0 {
			report(SeverityError, i, e, "no targets")
		}

		seen := map[string]bool{}
		for j, t := range e.Targets {
			if !ValidURL(t.URL) {
				report(SeverityError, i, e, "target %d: invalid url %q", j, t.URL)
			}
			if seen[t.URL] {
				report(SeverityError, i, e, "target %d: duplicate url %q", j, t.URL)
			}
			seen[t.URL] = true
		}
	}

	return problems
}

// HasErrors reports whether any of the problems is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
