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

// Package jslit implements a lexer for the small subset of JavaScript
// literal syntax used by Doxygen's search index files: var statements, array
// and object literals, quoted strings, numbers and a few keywords.
//
// Tokenization is done by the tdewolff JavaScript lexer. This package adds
// positions, string unescaping and signed numbers on top of it.
package jslit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// ErrSyntax indicates that the input is not a valid literal.
var ErrSyntax = errors.New("syntax error")

// Kind is the kind of a lexical token.
type Kind int

const (
	// EOF is the end of input.
	EOF Kind = iota

	// Ident is an identifier or keyword such as var, null or searchData.
	Ident

	// String is a quoted string. Token.Text holds the unescaped value.
	String

	// Number is a numeric literal with an optional leading minus sign.
	// Token.Text holds the raw text.
	Number

	// Punct is a single punctuation character: one of []{},:;=
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case Punct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Token is a lexical token.
type Token struct {
	Kind Kind
	Text string

	// Line and Col are the 1-based position of the token's first rune.
	Line int
	Col  int
}

// Is reports whether the token is the given punctuation or identifier.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == text
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case String:
		return strconv.Quote(t.Text)
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}

// SyntaxError is returned for malformed input. It wraps ErrSyntax.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Unwrap returns ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Lexer reads tokens from a reader.
type Lexer struct {
	src []byte
	lex *js.Lexer

	// off is the offset in src of the next raw token.
	off  int
	line int
	col  int

	peeked *Token
	err    error
}

// NewLexer returns a new Lexer reading from r. All of r is read up front; a
// read error is returned by the first call to Peek or Next.
func NewLexer(r io.Reader) *Lexer {
	l := &Lexer{
		line: 1,
		col:  1,
	}
	b, err := io.ReadAll(r)
	if err != nil {
		l.err = fmt.Errorf("reading input: %w", err)
		return l
	}
	b = bytes.TrimPrefix(b, []byte("\uFEFF"))
	l.src = b
	l.lex = js.NewLexer(parse.NewInputBytes(b))
	return l
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	t, err := l.lexToken()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &t
	return t, nil
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t, nil
	}
	return l.lexToken()
}

// Expect consumes the next token and returns an error if it is not the given
// punctuation or identifier.
func (l *Lexer) Expect(text string) (Token, error) {
	t, err := l.Next()
	if err != nil {
		return t, err
	}
	if !t.Is(text) {
		return t, l.Errorf(t, "expected %q, found %s", text, t)
	}
	return t, nil
}

// ExpectKind consumes the next token and returns an error if it is not of
// kind k.
func (l *Lexer) ExpectKind(k Kind) (Token, error) {
	t, err := l.Next()
	if err != nil {
		return t, err
	}
	if t.Kind != k {
		return t, l.Errorf(t, "expected %s, found %s", k, t)
	}
	return t, nil
}

// Accept consumes the next token if it is the given punctuation or
// identifier and reports whether it did.
func (l *Lexer) Accept(text string) (bool, error) {
	t, err := l.Peek()
	if err != nil {
		return false, err
	}
	if t.Is(text) {
		l.peeked = nil
		return true, nil
	}
	return false, nil
}

// Errorf returns a SyntaxError positioned at t.
func (l *Lexer) Errorf(t Token, format string, args ...any) error {
	return &SyntaxError{
		Line: t.Line,
		Col:  t.Col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// rawToken is a token as returned by the js lexer along with its position.
type rawToken struct {
	tt   js.TokenType
	data []byte
	pos  Token
}

// raw returns the next token from the js lexer and advances the position
// past it.
func (l *Lexer) raw() rawToken {
	tt, data := l.lex.Next()
	t := rawToken{
		tt:   tt,
		data: data,
		pos:  Token{Line: l.line, Col: l.col},
	}
	l.off += len(data)
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		l.line += bytes.Count(data, []byte{'\n'})
		l.col = 1 + utf8.RuneCount(data[i+1:])
	} else {
		l.col += utf8.RuneCount(data)
	}
	return t
}

// rawSkip returns the next token that is not whitespace or a comment.
func (l *Lexer) rawSkip() (rawToken, error) {
	for {
		t := l.raw()
		switch t.tt {
		case js.WhitespaceToken, js.LineTerminatorToken:
			continue
		case js.CommentToken, js.CommentLineTerminatorToken:
			if bytes.HasPrefix(t.data, []byte("/*")) && (len(t.data) < 4 || !bytes.HasSuffix(t.data, []byte("*/"))) {
				return t, l.Errorf(t.pos, "unterminated comment")
			}
			continue
		}
		return t, nil
	}
}

func (l *Lexer) lexToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	t, err := l.token()
	if err != nil {
		l.err = err
	}
	return t, err
}

func (l *Lexer) token() (Token, error) {
	raw, err := l.rawSkip()
	if err != nil {
		return raw.pos, err
	}
	// start is the offset of the token in src.
	start := l.off - len(raw.data)

	t := raw.pos
	switch {
	case raw.tt == js.ErrorToken:
		if errors.Is(l.lex.Err(), io.EOF) {
			t.Kind = EOF
			return t, nil
		}
		return t, l.lexError(t, start)
	case raw.tt == js.StringToken:
		t.Kind = String
		t.Text, err = l.unquote(t, raw.data)
		return t, err
	case isNumber(raw.data):
		t.Kind = Number
		t.Text = string(raw.data)
		return t, nil
	case bytes.Equal(raw.data, []byte("-")):
		next := l.raw()
		if !isNumber(next.data) {
			return t, l.Errorf(t, "expected number after '-'")
		}
		t.Kind = Number
		t.Text = "-" + string(next.data)
		return t, nil
	case len(raw.data) == 1 && strings.IndexByte("[]{},:;=", raw.data[0]) >= 0:
		t.Kind = Punct
		t.Text = string(raw.data)
		return t, nil
	case isIdent(raw.data):
		t.Kind = Ident
		t.Text = string(raw.data)
		return t, nil
	default:
		c, _ := utf8.DecodeRune(raw.data)
		return t, l.Errorf(t, "unexpected character %q", c)
	}
}

// lexError describes the input at off that the js lexer rejected.
func (l *Lexer) lexError(t Token, off int) error {
	rest := l.src[off:]
	if len(rest) == 0 {
		return l.Errorf(t, "unexpected end of input")
	}

	c, _ := utf8.DecodeRune(rest)
	if c == '\'' || c == '"' {
		end := bytes.IndexAny(rest[1:], "\n"+string(c))
		if end >= 0 && rest[1+end] == '\n' {
			return l.Errorf(t, "newline in string")
		}
		return l.Errorf(t, "unterminated string")
	}
	return l.Errorf(t, "unexpected character %q", c)
}

// unquote unescapes the quoted string literal s.
func (l *Lexer) unquote(t Token, s []byte) (string, error) {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return "", l.Errorf(t, "unterminated string")
	}
	s = s[1 : len(s)-1]

	var sb strings.Builder
	sb.Grow(len(s))
	for len(s) > 0 {
		i := bytes.IndexByte(s, '\\')
		if i < 0 {
			sb.Write(s)
			break
		}
		sb.Write(s[:i])
		s = s[i+1:]
		if len(s) == 0 {
			return "", l.Errorf(t, "unterminated string")
		}

		c, size := utf8.DecodeRune(s)
		s = s[size:]
		switch c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '\n':
			// Line continuation.
		case '\r':
			s = bytes.TrimPrefix(s, []byte{'\n'})
		case 'x', 'u':
			n := 2
			if c == 'u' {
				n = 4
			}
			if len(s) < n {
				return "", l.Errorf(t, "invalid escape \\%c%s", c, s)
			}
			v, err := strconv.ParseUint(string(s[:n]), 16, 16)
			if err != nil {
				return "", l.Errorf(t, "invalid unicode escape \\%c%s", c, s[:n])
			}
			r := rune(v)
			s = s[n:]
			if utf16.IsSurrogate(r) && len(s) >= 6 && s[0] == '\\' && s[1] == 'u' {
				if lo, err := strconv.ParseUint(string(s[2:6]), 16, 16); err == nil {
					if p := utf16.DecodeRune(r, rune(lo)); p != utf8.RuneError {
						r = p
						s = s[6:]
					}
				}
			}
			sb.WriteRune(r)
		default:
			// Any other escaped character stands for itself, e.g. \' \" \\ \/.
			sb.WriteRune(c)
		}
	}
	return sb.String(), nil
}

func isNumber(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] == '.' {
		return len(b) > 1 && '0' <= b[1] && b[1] <= '9'
	}
	return '0' <= b[0] && b[0] <= '9'
}

func isIdent(b []byte) bool {
	c, _ := utf8.DecodeRune(b)
	return c == '_' || c == '$' || unicode.IsLetter(c)
}
