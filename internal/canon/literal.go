package canon

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"lexcanon/internal/diag"
	"lexcanon/internal/token"
)

// emitNumber classifies a number span and computes its value. Integers that
// do not fit in 64 bits keep Overflow set and are reported.
func (s *state) emitNumber(r token.Raw) {
	kind, val, overflow := parseNumber(r.Text)
	s.emit(token.Token{Kind: kind, Span: r.Span, Text: r.Text, Value: val})
	if overflow && s.c.opts.Reporter != nil {
		diag.ReportError(s.c.opts.Reporter, diag.CanonIntOverflow, r.Span,
			"integer literal "+r.Text+" does not fit in 64 bits").
			WithArgs(r.Text).
			Emit()
	}
}

func parseNumber(text string) (token.Kind, token.Value, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	if len(clean) > 1 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			clean = clean[2:]
		}
	}
	if base == 10 && strings.ContainsAny(clean, ".eE") {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return token.Unknown, token.Value{}, false
		}
		return token.FloatLit, token.Value{Float: f}, false
	}
	n, err := strconv.ParseUint(clean, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return token.IntLit, token.Value{Overflow: true}, true
		}
		return token.Unknown, token.Value{}, false
	}
	return token.IntLit, token.Value{Int: n}, false
}

func stringToken(r token.Raw) token.Token {
	return token.Token{
		Kind:  token.StringLit,
		Span:  r.Span,
		Text:  r.Text,
		Value: token.Value{Str: unquote(r.Text)},
	}
}

// unquote strips the delimiters of a scanned string and resolves escapes.
// Unknown escapes are kept as written.
func unquote(text string) string {
	_, openSize := utf8.DecodeRuneInString(text)
	closing, closeSize := utf8.DecodeLastRuneInString(text)
	if openSize+closeSize > len(text) {
		return ""
	}
	body := text[openSize : len(text)-closeSize]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		r, sz := utf8.DecodeRuneInString(body[i:])
		i += sz
		if r != '\\' || i == len(body) {
			b.WriteRune(r)
			continue
		}
		esc, esz := utf8.DecodeRuneInString(body[i:])
		i += esz
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"', '\'', closing:
			b.WriteRune(esc)
		default:
			b.WriteByte('\\')
			b.WriteRune(esc)
		}
	}
	return b.String()
}
