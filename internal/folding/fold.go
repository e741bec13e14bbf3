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

// Package folding implements text folding for keyword lookups.
package folding

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default returns a new transformer that removes diacritical marks, folds
// case and folds whitespace. "Grüßen  Sie" folds to "grussen sie".
func Default() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		&SpaceFolder{},
		norm.NFC,
	)
}

// Nop returns a transformer that leaves text unchanged.
func Nop() transform.Transformer {
	return transform.Nop
}

// String folds s using the transformer returned by folder.
func String(folder func() transform.Transformer, s string) (string, error) {
	folded, _, err := transform.String(folder(), s)
	if err != nil {
		return "", err //nolint:wrapcheck // callers add context.
	}
	return folded, nil
}
