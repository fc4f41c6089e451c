package lexer

import "lexcanon/internal/token"

// scanSpace consumes a run of horizontal whitespace.
func (s *Scanner) scanSpace() token.RawKind {
	for {
		r, sz := s.cur.PeekRune()
		if sz == 0 || !isSpace(r) {
			return token.RawSpace
		}
		s.cur.BumpRune()
	}
}

func (s *Scanner) atComment() bool {
	b0, b1, ok := s.cur.Peek2()
	return ok && b0 == '/' && b1 == '/'
}

// scanComment consumes "//" up to, not including, the newline.
func (s *Scanner) scanComment() token.RawKind {
	for !s.cur.EOF() && s.cur.Peek() != '\n' {
		s.cur.BumpRune()
	}
	return token.RawComment
}
