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
	"strconv"
	"strings"
)

// ErrInvalidID indicates a malformed keyword id.
var ErrInvalidID = errors.New("invalid keyword id")

const hexDigits = "0123456789abcdef"

// EncodeTerm encodes a search term the way Doxygen does for keyword ids.
// ASCII letters and digits and all non-ASCII bytes are kept, everything
// else is written as '_' followed by two hex digits. The result is lower
// case.
func EncodeTerm(term string) string {
	var sb strings.Builder
	for i := 0; i < len(term); i++ {
		c := term[i]
		if isIDByte(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('_')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xf])
	}
	return strings.ToLower(sb.String())
}

// EncodeID returns the keyword id for the term and counter.
func EncodeID(term string, counter int) string {
	return EncodeTerm(term) + "_" + strconv.Itoa(counter)
}

// DecodeTerm reverses EncodeTerm. Because encoding lower-cases the term the
// result is always lower case.
func DecodeTerm(enc string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(enc); i++ {
		c := enc[i]
		if c != '_' {
			sb.WriteByte(c)
			continue
		}
		if i+2 >= len(enc) {
			return "", fmt.Errorf("%w: truncated escape in %q", ErrInvalidID, enc)
		}
		v, err := strconv.ParseUint(enc[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: bad escape %q in %q", ErrInvalidID, enc[i:i+3], enc)
		}
		sb.WriteByte(byte(v))
		i += 2
	}
	return sb.String(), nil
}

// DecodeID splits a keyword id into its decoded term and counter.
func DecodeID(id string) (string, int, error) {
	i := strings.LastIndexByte(id, '_')
	if i < 0 {
		return "", 0, fmt.Errorf("%w: missing counter in %q", ErrInvalidID, id)
	}

	suffix := id[i+1:]
	if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
		return "", 0, fmt.Errorf("%w: bad counter in %q", ErrInvalidID, id)
	}
	counter, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad counter in %q: %w", ErrInvalidID, id, err)
	}

	term, err := DecodeTerm(id[:i])
	if err != nil {
		return "", 0, err
	}
	return term, counter, nil
}

func isIDByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c >= 0x80
}
