package lexer

import (
	"lexcanon/internal/lexicon"
	"lexcanon/internal/token"
)

// scanWord reads a word. Without whitespace segmentation every letter is its
// own span (with its combining marks); the canonicalizer decides how letters
// group into keywords and identifiers.
func (s *Scanner) scanWord() token.RawKind {
	s.cur.BumpRune()
	if s.tbl.Segmentation() == lexicon.SegmentNone {
		s.bumpMarks()
		return token.RawWord
	}
	for {
		r, sz := s.cur.PeekRune()
		if sz == 0 || !lexicon.IsWordRune(r) {
			return token.RawWord
		}
		s.cur.BumpRune()
	}
}

func (s *Scanner) bumpMarks() {
	for {
		r, sz := s.cur.PeekRune()
		if sz == 0 || !isMark(r) {
			return
		}
		s.cur.BumpRune()
	}
}
