package entities

import "strings"

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokenOpen   TokenKind = iota // {
	TokenClose                   // }
	TokenString                  // quoted or bare string
	TokenEnd                     // NUL, explicit end of the stream
)

func (k TokenKind) String() string {
	switch k {
	case TokenOpen:
		return "{"
	case TokenClose:
		return "}"
	case TokenString:
		return "string"
	case TokenEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Token is a single lexical token. Offset is the byte offset of its first
// character in the input.
type Token struct {
	Kind   TokenKind
	Value  string
	Offset int
}

// Tokenizer splits entity text into tokens.
type Tokenizer struct {
	s   string
	pos int
}

// NewTokenizer returns a tokenizer reading s.
func NewTokenizer(s string) *Tokenizer {
	return &Tokenizer{s: s}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Next returns the next token, or false at the end of the input.
//
// Quoted strings run until the next quote with no escape processing; an
// unterminated quote runs to the end of the input. Bare strings run until
// whitespace, so braces inside them are part of the string.
func (t *Tokenizer) Next() (Token, bool) {
	for t.pos < len(t.s) && isSpace(t.s[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.s) {
		return Token{}, false
	}
	start := t.pos
	switch t.s[t.pos] {
	case 0:
		t.pos++
		return Token{Kind: TokenEnd, Offset: start}, true
	case '{':
		t.pos++
		return Token{Kind: TokenOpen, Offset: start}, true
	case '}':
		t.pos++
		return Token{Kind: TokenClose, Offset: start}, true
	case '"':
		rest := t.s[start+1:]
		if i := strings.IndexByte(rest, '"'); i >= 0 {
			t.pos = start + 1 + i + 1
			return Token{Kind: TokenString, Value: rest[:i], Offset: start}, true
		}
		t.pos = len(t.s)
		return Token{Kind: TokenString, Value: rest, Offset: start}, true
	default:
		end := start + 1
		for end < len(t.s) && !isSpace(t.s[end]) {
			end++
		}
		// the terminating whitespace is consumed with the token
		t.pos = min(end+1, len(t.s))
		return Token{Kind: TokenString, Value: t.s[start:end], Offset: start}, true
	}
}
