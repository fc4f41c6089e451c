package lexer

import (
	"lexcanon/internal/diag"
	"lexcanon/internal/token"
)

// scanString reads a quoted string up to closing. A backslash escapes the
// next rune, so an escaped closing quote does not end the string. Strings do
// not span lines: a newline or EOF first yields RawInvalid.
func (s *Scanner) scanString(closing rune) token.RawKind {
	s.cur.BumpRune() // открывающая кавычка
	for {
		r, sz := s.cur.PeekRune()
		switch {
		case sz == 0 || r == '\n' || (r == '\r' && s.crlf()):
			s.unterminated(closing)
			return token.RawInvalid
		case r == '\\':
			s.cur.Bump()
			if next, sz := s.cur.PeekRune(); sz > 0 && next != '\n' {
				s.cur.BumpRune()
			}
		case r == closing:
			s.cur.BumpRune()
			return token.RawString
		default:
			s.cur.BumpRune()
		}
	}
}

func (s *Scanner) crlf() bool {
	b0, b1, ok := s.cur.Peek2()
	return ok && b0 == '\r' && b1 == '\n'
}

func (s *Scanner) unterminated(closing rune) {
	at := s.cur.SpanFrom(s.cur.Mark())
	s.problem = problem{
		code: diag.LexUnterminatedString,
		msg:  "unterminated string literal",
		fix: &diag.Fix{
			Title: "insert closing quote",
			Edits: []diag.FixEdit{{Span: at, NewText: string(closing)}},
		},
	}
}
