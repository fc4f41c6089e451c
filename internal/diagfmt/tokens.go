package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

const maxTextColumn = 32

type TokenOutput struct {
	Kind    string       `json:"kind" msgpack:"kind"`
	Text    string       `json:"text,omitempty" msgpack:"text,omitempty"`
	Span    source.Span  `json:"span" msgpack:"span"`
	Value   *token.Value `json:"value,omitempty" msgpack:"value,omitempty"`
	Leading []string     `json:"leading,omitempty" msgpack:"leading,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
// Колонка текста выравнивается по ширине на экране (CJK = 2 колонки).
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, useColor bool) error {
	kindColor := color.New(color.FgCyan)
	if useColor {
		kindColor.EnableColor()
	} else {
		kindColor.DisableColor()
	}

	texts := make([]string, len(tokens))
	textWidth := 0
	for i, tok := range tokens {
		texts[i] = runewidth.Truncate(strconv.Quote(tok.Text), maxTextColumn, "…\"")
		textWidth = max(textWidth, runewidth.StringWidth(texts[i]))
	}

	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%3d: %s %s at %d:%d-%d:%d",
			i+1,
			kindColor.Sprint(padRight(tok.Kind.String(), 10)),
			runewidth.FillRight(texts[i], textWidth),
			startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if v := valueString(tok); v != "" {
			line += " = " + v
		}
		if names := triviaNames(tok.Leading); len(names) > 0 {
			line += " (leading: " + strings.Join(names, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatRawPretty prints tokenizer output, one raw span per line.
func FormatRawPretty(w io.Writer, raws []token.Raw, fs *source.FileSet) error {
	for i, r := range raws {
		startPos, endPos := fs.Resolve(r.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-8s %s at %d:%d-%d:%d\n",
			i+1, r.Kind, strconv.Quote(r.Text),
			startPos.Line, startPos.Col, endPos.Line, endPos.Col); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(TokenOutputs(tokens))
}

// FormatRawJSON prints tokenizer output as a JSON array.
func FormatRawJSON(w io.Writer, raws []token.Raw) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(raws)
}

// FormatTokensMsgpack writes the token list as one MessagePack array.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token) error {
	return msgpack.NewEncoder(w).Encode(TokenOutputs(tokens))
}

// TokenOutputs converts tokens into their serializable form.
func TokenOutputs(tokens []token.Token) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		to := TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: triviaNames(tok.Leading),
		}
		if tok.Kind == token.Ident || tok.IsLiteral() {
			v := tok.Value
			to.Value = &v
		}
		out = append(out, to)
	}
	return out
}

func triviaNames(trivia []token.Trivia) []string {
	if len(trivia) == 0 {
		return nil
	}
	names := make([]string, len(trivia))
	for i, tv := range trivia {
		b, _ := tv.Kind.MarshalText() //nolint:errcheck // never fails
		names[i] = string(b)
	}
	return names
}

func valueString(tok token.Token) string {
	switch tok.Kind {
	case token.IntLit:
		if tok.Value.Overflow {
			return "overflow"
		}
		return strconv.FormatUint(tok.Value.Int, 10)
	case token.FloatLit:
		return strconv.FormatFloat(tok.Value.Float, 'g', -1, 64)
	case token.StringLit:
		return strconv.Quote(tok.Value.Str)
	}
	return ""
}

func padRight(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
