package token

import (
	"fmt"
)

// Kind is the canonical identity of a token, shared by all locales.
type Kind uint8

const (
	// Unknown marks lexical content that no rule could classify.
	Unknown Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident represents an identifier token.
	Ident

	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// StringLit represents the string literal token.
	StringLit

	KwModule  // module
	KwUse     // use
	KwRule    // rule
	KwGiven   // given
	KwLet     // let
	KwBe      // be
	KwIf      // if
	KwThen    // then
	KwElse    // else
	KwElseIf  // else if
	KwWhen    // when
	KwMatch   // match
	KwForEach // for each
	KwIn      // in
	KwWhile   // while
	KwReturn  // return
	KwAnd     // and
	KwOr      // or
	KwNot     // not
	KwTrue    // true
	KwFalse   // false
	KwNull    // null
	KwType    // type
	KwWith    // with
	KwAs      // as

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Assign    // =
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Arrow     // ->
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Dot       // .
	Colon     // :
	Semicolon // ;
	Question  // ?
	At        // @

	kindCount
)

const (
	firstKeyword = KwModule
	lastKeyword  = KwAs
	firstPunct   = Plus
	lastPunct    = At
)

var kindNames = [kindCount]string{
	Unknown:   "Unknown",
	EOF:       "EOF",
	Ident:     "Identifier",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	KwModule:  "Module",
	KwUse:     "Use",
	KwRule:    "Rule",
	KwGiven:   "Given",
	KwLet:     "Let",
	KwBe:      "Be",
	KwIf:      "If",
	KwThen:    "Then",
	KwElse:    "Else",
	KwElseIf:  "ElseIf",
	KwWhen:    "When",
	KwMatch:   "Match",
	KwForEach: "ForEach",
	KwIn:      "In",
	KwWhile:   "While",
	KwReturn:  "Return",
	KwAnd:     "And",
	KwOr:      "Or",
	KwNot:     "Not",
	KwTrue:    "True",
	KwFalse:   "False",
	KwNull:    "Null",
	KwType:    "Type",
	KwWith:    "With",
	KwAs:      "As",
	Plus:      "Plus",
	Minus:     "Minus",
	Star:      "Star",
	Slash:     "Slash",
	Percent:   "Percent",
	Assign:    "Assign",
	EqEq:      "EqEq",
	BangEq:    "BangEq",
	Lt:        "Lt",
	LtEq:      "LtEq",
	Gt:        "Gt",
	GtEq:      "GtEq",
	Arrow:     "Arrow",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	Comma:     "Comma",
	Dot:       "Dot",
	Colon:     "Colon",
	Semicolon: "Semicolon",
	Question:  "Question",
	At:        "At",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k) // #nosec G115 -- bounded by kindCount
	}
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// MarshalText encodes a kind by its stable name.
func (k Kind) MarshalText() ([]byte, error) {
	if k >= kindCount {
		return nil, fmt.Errorf("token: invalid kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("token: unknown kind %q", b)
	}
	*k = v
	return nil
}

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool { return k < kindCount }

// IsKeyword reports whether k is a keyword kind.
func (k Kind) IsKeyword() bool { return k >= firstKeyword && k <= lastKeyword }

// IsPunct reports whether k is a punctuation or operator kind.
func (k Kind) IsPunct() bool { return k >= firstPunct && k <= lastPunct }

// IsLiteral reports whether k is a numeric or string literal kind.
func (k Kind) IsLiteral() bool { return k == IntLit || k == FloatLit || k == StringLit }

// HasFixedSpelling reports whether tokens of this kind can be spelled from a
// lexicon alone. Identifiers, literals and the specials carry their own text.
func (k Kind) HasFixedSpelling() bool { return k.IsKeyword() || k.IsPunct() }

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// FixedKinds returns the kinds that a lexicon is expected to spell.
func FixedKinds() []Kind {
	out := make([]Kind, 0, int(lastPunct-firstKeyword)+1)
	for k := firstKeyword; k <= lastPunct; k++ {
		out = append(out, k)
	}
	return out
}
