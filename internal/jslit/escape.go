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

package jslit

import (
	"fmt"
	"strings"
)

// Escape escapes s for use inside a quoted string literal. Backslashes, the
// runes in quotes and control characters are escaped so that the lexer
// reads back exactly s.
func Escape(s, quotes string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, c := range s {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case strings.ContainsRune(quotes, c):
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\b':
			sb.WriteString(`\b`)
		case c == '\f':
			sb.WriteString(`\f`)
		case c < 0x20, c == 0x7f, c == '\u2028', c == '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, c)
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
