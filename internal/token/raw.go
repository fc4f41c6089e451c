package token

import (
	"fmt"

	"lexcanon/internal/source"
)

// RawKind classifies a raw span before canonicalization.
type RawKind uint8

const (
	// RawWord is a run of letters, or a single letter in unsegmented scripts.
	RawWord RawKind = iota
	// RawNumber is a numeric literal scanned by the fixed literal rules.
	RawNumber
	// RawString is a complete quoted string, quotes included.
	RawString
	// RawPunct is a single punctuation or symbol codepoint.
	RawPunct
	// RawSpace is horizontal whitespace (including a leading BOM and \r).
	RawSpace
	// RawNewline is a single \n.
	RawNewline
	// RawComment is a // line comment without its newline.
	RawComment
	// RawInvalid is content the tokenizer could not scan, e.g. an unterminated string.
	RawInvalid
)

var rawKindNames = [...]string{
	RawWord:    "Word",
	RawNumber:  "Number",
	RawString:  "String",
	RawPunct:   "Punct",
	RawSpace:   "Space",
	RawNewline: "Newline",
	RawComment: "Comment",
	RawInvalid: "Invalid",
}

func (k RawKind) String() string {
	if int(k) < len(rawKindNames) {
		return rawKindNames[k]
	}
	return fmt.Sprintf("RawKind(%d)", uint8(k))
}

// MarshalText encodes the raw kind by name.
func (k RawKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsTrivia reports whether spans of this kind never carry meaning.
func (k RawKind) IsTrivia() bool {
	return k == RawSpace || k == RawNewline || k == RawComment
}

// Raw is a contiguous slice of source text without canonical meaning yet.
type Raw struct {
	Kind RawKind     `json:"kind" msgpack:"kind"`
	Span source.Span `json:"span" msgpack:"span"`
	Text string      `json:"text" msgpack:"text"`
}
