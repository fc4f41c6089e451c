package canon

import (
	"unicode/utf8"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/token"
)

// classifyRun handles a run of touching word/number spans that no form
// claimed as a whole: a number literal, an identifier (possibly split at
// infix forms) or an Unknown token for a shape no identifier can have.
func (s *state) classifyRun(i int) int {
	end := s.runEnd(i)
	first := s.rs[i]
	if first.Kind == token.RawNumber {
		if end-i == 1 {
			s.emitNumber(first)
		} else {
			s.unknown(i, end, diag.CanonInvalidIdentifier, first.Text+" cannot start an identifier")
		}
		return end
	}
	if r, _ := utf8.DecodeRuneInString(first.Text); s.tbl.NotIdentStart(r) {
		s.unknown(i, end, diag.CanonInvalidIdentifier, string(r)+" cannot start an identifier")
		return end
	}

	seg := i
	for k := i + 1; k < end; k++ {
		splitEnd, e, ok := s.infixAt(seg, k, end)
		if !ok {
			continue
		}
		s.emitIdent(seg, k)
		s.emit(token.Token{Kind: e.Kind, Span: s.cover(k, splitEnd), Text: s.text(k, splitEnd)})
		seg = splitEnd
		k = splitEnd
	}
	s.emitIdent(seg, end)
	return end
}

// infixAt looks for an infix form starting at rs[k] inside the run
// rs[seg:end]; both sides must keep InfixMin runes. 用户的名字 splits,
// 我的结构体 does not.
func (s *state) infixAt(seg, k, end int) (int, *lexicon.Entry, bool) {
	left := s.runes(seg, k)
	ctx := lexicon.Context{Prev: token.Ident, HasPrev: true}

	var (
		bestEnd   int
		bestEntry *lexicon.Entry
	)
	p := s.tbl.Probe()
	for j := k; j < end; j++ {
		var ok bool
		if p, ok = p.StepString(nfc(s.rs[j].Text)); !ok {
			break
		}
		for _, e := range p.Entries() {
			if !e.Infix() || left < e.InfixMin || s.runes(j+1, end) < e.InfixMin || !e.When.Holds(ctx) {
				continue
			}
			bestEnd, bestEntry = j+1, e
			break
		}
	}
	return bestEnd, bestEntry, bestEntry != nil
}

func (s *state) emitIdent(start, end int) {
	text := s.text(start, end)
	s.emit(token.Token{
		Kind:  token.Ident,
		Span:  s.cover(start, end),
		Text:  text,
		Value: token.Value{Str: nfc(text)},
	})
}
