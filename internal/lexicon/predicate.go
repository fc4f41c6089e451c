package lexicon

import (
	"fmt"
	"slices"
	"strings"

	"lexcanon/internal/token"
)

// Cond is a tri-state condition on a positional fact.
type Cond uint8

const (
	CondAny Cond = iota
	CondRequire
	CondForbid
)

// ParseCond accepts "", "any", "require" and "forbid".
func ParseCond(s string) (Cond, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return CondAny, nil
	case "require":
		return CondRequire, nil
	case "forbid":
		return CondForbid, nil
	default:
		return CondAny, fmt.Errorf("unknown condition %q", s)
	}
}

func (c Cond) String() string {
	switch c {
	case CondRequire:
		return "require"
	case CondForbid:
		return "forbid"
	default:
		return "any"
	}
}

func (c Cond) holds(fact bool) bool {
	switch c {
	case CondRequire:
		return fact
	case CondForbid:
		return !fact
	default:
		return true
	}
}

func (c Cond) exclusiveWith(o Cond) bool {
	return (c == CondRequire && o == CondForbid) || (c == CondForbid && o == CondRequire)
}

// Context describes the position a candidate form is matched at.
type Context struct {
	Prev      token.Kind // kind of the previous canonical token, if HasPrev
	HasPrev   bool
	LineStart bool // nothing significant precedes the form on its line
	LineEnd   bool // nothing significant follows the form on its line
}

// Predicate is the closed set of disambiguation conditions an entry may carry.
// The zero value always holds.
type Predicate struct {
	After     []token.Kind // previous token must be one of these
	NotAfter  []token.Kind // previous token must not be one of these
	LineStart Cond
	LineEnd   Cond
}

// IsZero reports whether p places no condition at all.
func (p Predicate) IsZero() bool {
	return len(p.After) == 0 && len(p.NotAfter) == 0 && p.LineStart == CondAny && p.LineEnd == CondAny
}

// Holds evaluates p against ctx.
func (p Predicate) Holds(ctx Context) bool {
	if !p.LineStart.holds(ctx.LineStart) || !p.LineEnd.holds(ctx.LineEnd) {
		return false
	}
	if len(p.After) > 0 && (!ctx.HasPrev || !slices.Contains(p.After, ctx.Prev)) {
		return false
	}
	if ctx.HasPrev && slices.Contains(p.NotAfter, ctx.Prev) {
		return false
	}
	return true
}

// prevSet is the set of previous-token states a predicate admits.
// The key noPrev stands for "no previous token".
type prevSet map[int]struct{}

const noPrev = -1

func (p Predicate) admittedPrev() prevSet {
	out := make(prevSet)
	if len(p.After) > 0 {
		for _, k := range p.After {
			if !slices.Contains(p.NotAfter, k) {
				out[int(k)] = struct{}{}
			}
		}
		return out
	}
	for _, k := range token.Kinds() {
		if !slices.Contains(p.NotAfter, k) {
			out[int(k)] = struct{}{}
		}
	}
	out[noPrev] = struct{}{}
	return out
}

// ExclusiveWith reports whether no Context can satisfy both p and o.
// The conditions are independent except that a missing previous token
// implies the line start, which is accounted for.
func (p Predicate) ExclusiveWith(o Predicate) bool {
	if p.LineStart.exclusiveWith(o.LineStart) || p.LineEnd.exclusiveWith(o.LineEnd) {
		return true
	}
	a, b := p.admittedPrev(), o.admittedPrev()
	common := 0
	onlyNoPrev := true
	for k := range a {
		if _, ok := b[k]; ok {
			common++
			if k != noPrev {
				onlyNoPrev = false
			}
		}
	}
	if common == 0 {
		return true
	}
	if onlyNoPrev && (p.LineStart == CondForbid || o.LineStart == CondForbid) {
		return true
	}
	return false
}

func (p Predicate) String() string {
	if p.IsZero() {
		return "always"
	}
	var parts []string
	if len(p.After) > 0 {
		parts = append(parts, "after="+kindList(p.After))
	}
	if len(p.NotAfter) > 0 {
		parts = append(parts, "not_after="+kindList(p.NotAfter))
	}
	if p.LineStart != CondAny {
		parts = append(parts, "line_start="+p.LineStart.String())
	}
	if p.LineEnd != CondAny {
		parts = append(parts, "line_end="+p.LineEnd.String())
	}
	return strings.Join(parts, " ")
}

func kindList(ks []token.Kind) string {
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
