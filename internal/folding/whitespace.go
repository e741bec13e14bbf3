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

package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

type spaceState uint8

const (
	// spaceLeading is before the first non-space rune.
	spaceLeading spaceState = iota

	// spaceNone is right after a non-space rune.
	spaceNone

	// spaceRun is inside a run of white space that follows text.
	spaceRun
)

// SpaceFolder collapses each run of white space to a single ASCII space and
// drops leading and trailing white space. Display names in generated search
// data may be wrapped, so "datagram\n  protocol" folds to
// "datagram protocol".
//
// The space standing for a run is only written together with the rune that
// follows it. When dst has no room for both, Transform returns
// [transform.ErrShortDst] without consuming the rune, so a short destination
// buffer never drops or duplicates a space.
type SpaceFolder struct {
	state spaceState
}

// Transform implements [transform.Transformer.Transform].
func (f *SpaceFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nDst, nSrc int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])

		if unicode.IsSpace(r) {
			if f.state == spaceNone {
				f.state = spaceRun
			}
			nSrc += size
			continue
		}

		// The pending space and the rune are written together. Invalid
		// bytes are written as utf8.RuneError, which may be longer than
		// size.
		n := utf8.RuneLen(r)
		if f.state == spaceRun {
			n++
		}
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if f.state == spaceRun {
			dst[nDst] = ' '
			nDst++
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
		f.state = spaceNone
	}

	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (f *SpaceFolder) Reset() {
	f.state = spaceLeading
}
