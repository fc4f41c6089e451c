package token

import (
	"fmt"

	"lexcanon/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
)

// MarshalText keeps machine-readable output independent of enum order.
func (k TriviaKind) MarshalText() ([]byte, error) {
	switch k {
	case TriviaSpace:
		return []byte("Space"), nil
	case TriviaNewline:
		return []byte("Newline"), nil
	default:
		return []byte("LineComment"), nil
	}
}

func (k *TriviaKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Space":
		*k = TriviaSpace
	case "Newline":
		*k = TriviaNewline
	case "LineComment":
		*k = TriviaLineComment
	default:
		return fmt.Errorf("token: unknown trivia kind %q", b)
	}
	return nil
}

type Trivia struct {
	Kind TriviaKind  `json:"kind" msgpack:"kind"`
	Span source.Span `json:"span" msgpack:"span"`
	Text string      `json:"text" msgpack:"text"`
}

// TriviaFromRaw converts a trivia raw span; ok is false for significant spans.
func TriviaFromRaw(r Raw) (Trivia, bool) {
	var k TriviaKind
	switch r.Kind {
	case RawSpace:
		k = TriviaSpace
	case RawNewline:
		k = TriviaNewline
	case RawComment:
		k = TriviaLineComment
	default:
		return Trivia{}, false
	}
	return Trivia{Kind: k, Span: r.Span, Text: r.Text}, true
}
