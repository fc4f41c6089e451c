package dialect

import (
	"lexcanon/internal/locale"
	"lexcanon/internal/source"
)

// Hint says that the text at Span reads like Locale, weighted by Score.
type Hint struct {
	Locale locale.ID
	Score  int
	Reason string
	Span   source.Span
}

// Evidence collects hints from any number of files. The zero value is
// ready to use; a nil *Evidence ignores Add.
type Evidence struct {
	hints  []Hint
	totals map[locale.ID]int
}

func NewEvidence() *Evidence { return &Evidence{} }

// Add keeps h; only positive scores count towards Totals.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
	if h.Score <= 0 || h.Locale == "" {
		return
	}
	if e.totals == nil {
		e.totals = make(map[locale.ID]int)
	}
	e.totals[h.Locale] += h.Score
}

func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Totals is the summed positive score per locale. Callers must not modify it.
func (e *Evidence) Totals() map[locale.ID]int {
	if e == nil {
		return nil
	}
	return e.totals
}
