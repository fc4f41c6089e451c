package lexicon

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

// Segmentation tells the tokenizer whether the script separates words with spaces.
type Segmentation uint8

const (
	SegmentWhitespace Segmentation = iota
	// SegmentNone scripts get one span per letter; grouping is left to the canonicalizer.
	SegmentNone
)

func parseSegmentation(s string) (Segmentation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "whitespace":
		return SegmentWhitespace, nil
	case "none":
		return SegmentNone, nil
	default:
		return SegmentWhitespace, fmt.Errorf("unknown segmentation %q", s)
	}
}

func (s Segmentation) String() string {
	if s == SegmentNone {
		return "none"
	}
	return "whitespace"
}

// QuotePair delimits string literals.
type QuotePair struct {
	Open  rune
	Close rune
}

// Punctuation is the locale's preferred spelling of structural punctuation
// when a statement or block ends a line.
type Punctuation struct {
	StatementEnd  string
	ListSeparator string
	BlockStart    string
}

// Table is the immutable lexicon of one locale.
type Table struct {
	id        locale.ID
	name      string
	parent    *Table
	abstract  bool
	direction locale.Direction
	seg       Segmentation
	quotes    []QuotePair

	entries []*Entry
	byKind  map[token.Kind][]*Entry
	primary map[token.Kind]*Entry
	root    *node

	notIdentStart map[rune]struct{}
	messages      map[string]string
	punct         Punctuation

	fingerprint [32]byte
}

func (t *Table) ID() locale.ID { return t.id }
func (t *Table) Name() string { return t.name }
func (t *Table) Abstract() bool { return t.abstract }
func (t *Table) Direction() locale.Direction { return t.direction }
func (t *Table) Segmentation() Segmentation { return t.seg }
func (t *Table) Punctuation() Punctuation { return t.punct }
func (t *Table) Fingerprint() [32]byte { return t.fingerprint }
func (t *Table) FingerprintHex() string { return hex.EncodeToString(t.fingerprint[:]) }
func (t *Table) Entries() []*Entry { return t.entries }
func (t *Table) Forms(kind token.Kind) []*Entry { return t.byKind[kind] }

// Parent returns the table this one inherits from, or nil.
func (t *Table) Parent() *Table { return t.parent }

// Quotes returns the string delimiters; the first pair is the preferred one.
func (t *Table) Quotes() []QuotePair { return t.quotes }

// CloseQuote returns the closing delimiter for open.
func (t *Table) CloseQuote(open rune) (rune, bool) {
	for _, q := range t.quotes {
		if q.Open == open {
			return q.Close, true
		}
	}
	return 0, false
}

// NotIdentStart reports whether r can never begin an identifier in this locale.
func (t *Table) NotIdentStart(r rune) bool {
	_, ok := t.notIdentStart[r]
	return ok
}

// Primary returns the preferred spelling of kind.
func (t *Table) Primary(kind token.Kind) (string, bool) {
	e, ok := t.primary[kind]
	if !ok {
		return "", false
	}
	return e.Form, true
}

// Kinds returns the kinds reachable from this table, in enum order.
func (t *Table) Kinds() []token.Kind {
	out := make([]token.Kind, 0, len(t.byKind))
	for _, k := range token.Kinds() {
		if len(t.byKind[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Message returns the localized template for a diagnostic code, looking
// through parent tables.
func (t *Table) Message(code string) (string, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if m, ok := cur.messages[code]; ok {
			return m, true
		}
	}
	return "", false
}

// Lookup matches text exactly against the whole-form entries of the table.
// Infix entries are included; callers check their affix requirement.
func (t *Table) Lookup(text string, ctx Context) (token.Kind, bool) {
	p, ok := t.Probe().StepString(normalizeForm(text))
	if !ok {
		return token.Unknown, false
	}
	for _, e := range p.Entries() {
		if e.When.Holds(ctx) {
			return e.Kind, true
		}
	}
	return token.Unknown, false
}

// LongestMatch returns the kind of the longest form that is a prefix of input
// and whose predicate holds, plus the number of bytes it covers in the NFC
// form of input. A run of whitespace matches the single space between the
// words of a form.
func (t *Table) LongestMatch(input string, ctx Context) (token.Kind, int, bool) {
	input = norm.NFC.String(input)
	p := t.Probe()
	bestKind, bestLen, found := token.Unknown, 0, false

	i := 0
	for i < len(input) {
		r, size := decodeRune(input[i:])
		if isSpace(r) {
			if !p.CanSpace() {
				break
			}
			p, _ = p.Step(' ')
			for i < len(input) {
				r, size = decodeRune(input[i:])
				if !isSpace(r) {
					break
				}
				i += size
			}
			continue
		}
		var ok bool
		if p, ok = p.Step(r); !ok {
			break
		}
		i += size
		for _, e := range p.Entries() {
			if e.When.Holds(ctx) {
				bestKind, bestLen, found = e.Kind, i, true
				break
			}
		}
	}
	return bestKind, bestLen, found
}

func (t *Table) String() string {
	return fmt.Sprintf("lexicon(%s, %d entries)", t.id, len(t.entries))
}
