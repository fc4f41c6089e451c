package canon

import (
	"unicode/utf8"

	"lexcanon/internal/lexicon"
	"lexcanon/internal/token"
)

// candidate is a trie hit: a form that covers rs[start:end].
type candidate struct {
	end     int
	entries []*lexicon.Entry
}

// candidates walks the trie from rs[i] across consecutive spans. Spans that
// touch step directly; a plain space gap steps the form's word separator.
// Hits are returned shortest first.
func (s *state) candidates(i int) []candidate {
	var out []candidate
	p := s.tbl.Probe()
	j := i
	for j < len(s.rs) && steppable(s.rs[j].Kind) {
		var ok bool
		if p, ok = p.StepString(nfc(s.rs[j].Text)); !ok {
			break
		}
		j++
		if es := p.Entries(); len(es) > 0 {
			out = append(out, candidate{end: j, entries: es})
		}
		if j == len(s.rs) {
			break
		}
		next := s.rs[j]
		if steppable(next.Kind) && s.rs[j-1].Span.Adjacent(next.Span) {
			continue
		}
		if next.Kind == token.RawSpace && p.CanSpace() && j+1 < len(s.rs) && steppable(s.rs[j+1].Kind) {
			p, _ = p.Step(' ')
			j++
			continue
		}
		break
	}
	return out
}

// match returns the longest admissible form starting at rs[i].
func (s *state) match(i int) (int, *lexicon.Entry, bool) {
	cands := s.candidates(i)
	for k := len(cands) - 1; k >= 0; k-- {
		c := cands[k]
		for _, e := range c.entries {
			if s.admissible(e, i, c.end) {
				return c.end, e, true
			}
		}
	}
	return 0, nil, false
}

// admissible checks word boundaries, the predicate and the infix rule.
// A form that begins or ends with a letter never cuts into a word: 若何 and
// 返回值 stay identifiers.
func (s *state) admissible(e *lexicon.Entry, start, end int) bool {
	if e.StartsWord() && start > 0 && s.touching(start-1, start) {
		return false
	}
	if e.EndsWord() && end < len(s.rs) && s.touching(end, end-1) {
		return false
	}
	ctx := s.context(end)
	if !e.When.Holds(ctx) {
		return false
	}
	if e.Infix() {
		return ctx.HasPrev && ctx.Prev == token.Ident &&
			s.identRunes >= e.InfixMin && s.runRunesAfter(end) >= e.InfixMin
	}
	return true
}

// touching reports whether rs[i] is a word or number glued to rs[other].
func (s *state) touching(i, other int) bool {
	if !wordy(s.rs[i].Kind) {
		return false
	}
	a, b := s.rs[i].Span, s.rs[other].Span
	return a.Adjacent(b) || b.Adjacent(a)
}

// runRunesAfter counts the runes of the word run that follows rs[end],
// skipping plain spaces. Zero when something else follows.
func (s *state) runRunesAfter(end int) int {
	k := end
	for k < len(s.rs) && s.rs[k].Kind == token.RawSpace {
		k++
	}
	if k == len(s.rs) || !wordy(s.rs[k].Kind) {
		return 0
	}
	return s.runes(k, s.runEnd(k))
}

// runEnd returns the end of the run of touching word/number spans at rs[i].
func (s *state) runEnd(i int) int {
	j := i + 1
	for j < len(s.rs) && wordy(s.rs[j].Kind) && s.rs[j-1].Span.Adjacent(s.rs[j].Span) {
		j++
	}
	return j
}

func (s *state) runes(start, end int) int {
	n := 0
	for _, r := range s.rs[start:end] {
		n += utf8.RuneCountInString(nfc(r.Text))
	}
	return n
}

func steppable(k token.RawKind) bool {
	return k == token.RawWord || k == token.RawNumber || k == token.RawPunct
}

func wordy(k token.RawKind) bool {
	return k == token.RawWord || k == token.RawNumber
}
