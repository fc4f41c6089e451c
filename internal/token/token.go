package token

import (
	"lexcanon/internal/source"
)

// Value is the semantic payload of identifiers and literals.
type Value struct {
	Str      string  `json:"str,omitempty" msgpack:"str,omitempty"`
	Int      uint64  `json:"int,omitempty" msgpack:"int,omitempty"`
	Overflow bool    `json:"overflow,omitempty" msgpack:"overflow,omitempty"`
	Float    float64 `json:"float,omitempty" msgpack:"float,omitempty"`
}

// Token is a canonical token: a raw span plus its resolved kind.
type Token struct {
	Kind    Kind        `json:"kind" msgpack:"kind"`
	Span    source.Span `json:"span" msgpack:"span"`
	Text    string      `json:"text" msgpack:"text"`
	Value   Value       `json:"value" msgpack:"value"`
	Leading []Trivia    `json:"leading,omitempty" msgpack:"leading,omitempty"`
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool { return t.Kind.IsPunct() }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// HasNewline reports whether a newline precedes the token in its leading trivia.
func (t Token) HasNewline() bool {
	for _, tv := range t.Leading {
		if tv.Kind == TriviaNewline {
			return true
		}
	}
	return false
}
