package lexer

import (
	"unicode/utf8"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 1.5, 1e-3, 1.0e+10.
// Точка без цифры после неё в число не входит: "1.foo" → 1 . foo.
// Значение считает канонизатор; здесь только границы.
func (s *Scanner) scanNumber() token.RawKind {
	start := s.cur.Mark()

	if s.cur.Peek() == '0' {
		var digit func(rune) bool
		switch r, _ := s.cur.PeekRuneAt(1); r {
		case 'b', 'B':
			digit = isBin
		case 'o', 'O':
			digit = isOct
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			s.cur.Bump()
			s.cur.Bump()
			if s.digits(digit) == 0 {
				return s.badNumber(start, "expected digits after base prefix")
			}
			return token.RawNumber
		}
	}

	s.digits(isDec)

	// дробная часть
	if s.cur.Peek() == '.' {
		if r, _ := s.cur.PeekRuneAt(1); isDec(r) {
			s.cur.Bump()
			s.digits(isDec)
		}
	}

	// экспонента
	if b := s.cur.Peek(); b == 'e' || b == 'E' {
		mark := s.cur.Mark()
		s.cur.Bump()
		if b := s.cur.Peek(); b == '+' || b == '-' {
			s.cur.Bump()
		}
		if s.digits(isDec) == 0 {
			s.cur.Reset(mark)
			s.cur.Bump()
			return s.badNumber(start, "expected digit after exponent")
		}
	}
	return token.RawNumber
}

// gluedToWord: в локалях без сегментации цифры сразу после буквы остаются
// частью слова, поэтому префиксы 0x/0b и экспонента там не берутся
// (base64encode, a0b, x2e).
func (s *Scanner) gluedToWord() bool {
	if s.tbl.Segmentation() != lexicon.SegmentNone || s.cur.Off == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRune(s.file.Content[:s.cur.Off])
	return r != bom && lexicon.IsWordRune(r)
}

// digits consumes digits and '_' separators, returning how many digits it saw.
func (s *Scanner) digits(ok func(rune) bool) int {
	n := 0
	for {
		r := rune(s.cur.Peek())
		switch {
		case r == '_':
		case ok(r):
			n++
		default:
			return n
		}
		s.cur.Bump()
	}
}

func (s *Scanner) badNumber(start Mark, why string) token.RawKind {
	text := string(s.file.Content[uint32(start):s.cur.Off])
	s.problem = problem{
		code: diag.LexBadNumber,
		msg:  "malformed number literal " + text + ": " + why,
		args: []string{text},
	}
	return token.RawInvalid
}
