package lexicon

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

// Build turns locale data into an immutable table. parent must be the built
// table named by data.Inherits (nil when the data inherits nothing). Entries
// of the child replace inherited entries with the same form.
func Build(data Data, parent *Table) (*Table, error) {
	src := data.source()
	id, err := locale.Parse(data.ID)
	if err != nil {
		return nil, &InvalidDataError{Kind: InvalidLocaleID, Source: src, Detail: data.ID, Err: err}
	}
	if err := checkParent(src, data.Inherits, parent); err != nil {
		return nil, err
	}

	t := &Table{
		id:       id,
		name:     data.Name,
		parent:   parent,
		abstract: data.Abstract,
		messages: make(map[string]string, len(data.Messages)),
		byKind:   make(map[token.Kind][]*Entry),
		primary:  make(map[token.Kind]*Entry),
		root:     newNode(),
	}
	if t.name == "" {
		t.name = id.String()
	}
	if t.direction, err = locale.ParseDirection(data.Direction); err != nil {
		return nil, &InvalidDataError{Kind: InvalidForm, Source: src, Detail: "direction", Err: err}
	}
	if err := t.setSegmentation(src, data.Segmentation, parent); err != nil {
		return nil, err
	}
	if err := t.setQuotes(src, data.Quotes, parent); err != nil {
		return nil, err
	}
	if err := t.setNotIdentStart(src, data.NotIdentStart, parent); err != nil {
		return nil, err
	}
	for code, msg := range data.Messages {
		t.messages[code] = msg
	}
	t.setPunctuation(data.Punctuation, parent)

	own, err := ownEntries(id, src, &data)
	if err != nil {
		return nil, err
	}
	t.entries = mergeEntries(parent, own)
	if err := checkExclusive(id, t.entries); err != nil {
		return nil, err
	}
	if err := t.resolvePrimaries(src, own, parent); err != nil {
		return nil, err
	}
	for _, e := range t.entries {
		t.root.insert(e.Form, e)
		t.byKind[e.Kind] = append(t.byKind[e.Kind], e)
	}
	t.fingerprint = t.computeFingerprint()
	return t, nil
}

func checkParent(src, inherits string, parent *Table) error {
	if inherits == "" {
		if parent != nil {
			return &InvalidDataError{Kind: InvalidInherits, Source: src, Detail: "parent given but data does not inherit"}
		}
		return nil
	}
	want, err := locale.Parse(inherits)
	if err != nil {
		return &InvalidDataError{Kind: InvalidInherits, Source: src, Detail: inherits, Err: err}
	}
	if parent == nil || parent.id != want {
		return &InvalidDataError{Kind: InvalidInherits, Source: src, Detail: fmt.Sprintf("parent %s is not built", want)}
	}
	return nil
}

func (t *Table) setSegmentation(src, raw string, parent *Table) error {
	if raw == "" && parent != nil {
		t.seg = parent.seg
		return nil
	}
	seg, err := parseSegmentation(raw)
	if err != nil {
		return &InvalidDataError{Kind: InvalidSegmentation, Source: src, Err: err}
	}
	t.seg = seg
	return nil
}

func (t *Table) setQuotes(src string, quotes []QuoteData, parent *Table) error {
	if len(quotes) == 0 {
		if parent != nil {
			t.quotes = parent.quotes
		} else {
			t.quotes = []QuotePair{{Open: '"', Close: '"'}}
		}
		return nil
	}
	t.quotes = make([]QuotePair, 0, len(quotes))
	for _, q := range quotes {
		open, okOpen := singleRune(q.Open)
		closing, okClose := singleRune(q.Close)
		if !okOpen || !okClose || IsWordRune(open) || unicode.IsSpace(open) {
			return &InvalidDataError{Kind: InvalidQuote, Source: src, Detail: fmt.Sprintf("%q %q", q.Open, q.Close)}
		}
		if _, dup := t.CloseQuote(open); dup {
			return &InvalidDataError{Kind: InvalidQuote, Source: src, Detail: fmt.Sprintf("%q declared twice", q.Open)}
		}
		t.quotes = append(t.quotes, QuotePair{Open: open, Close: closing})
	}
	return nil
}

func (t *Table) setNotIdentStart(src string, runes []string, parent *Table) error {
	t.notIdentStart = make(map[rune]struct{}, len(runes))
	if parent != nil {
		for r := range parent.notIdentStart {
			t.notIdentStart[r] = struct{}{}
		}
	}
	for _, s := range runes {
		r, ok := singleRune(s)
		if !ok {
			return &InvalidDataError{Kind: InvalidForm, Source: src, Detail: fmt.Sprintf("not_ident_start %q is not a single character", s)}
		}
		t.notIdentStart[r] = struct{}{}
	}
	return nil
}

func (t *Table) setPunctuation(p PunctuationData, parent *Table) {
	if parent != nil {
		t.punct = parent.punct
	}
	if p.StatementEnd != "" {
		t.punct.StatementEnd = p.StatementEnd
	}
	if p.ListSeparator != "" {
		t.punct.ListSeparator = p.ListSeparator
	}
	if p.BlockStart != "" {
		t.punct.BlockStart = p.BlockStart
	}
}

// ownEntries decodes keyword lists (in kind order) followed by [[entry]] items
// (in file order).
func ownEntries(id locale.ID, src string, data *Data) ([]*Entry, error) {
	names := make([]string, 0, len(data.Keywords))
	for name := range data.Keywords {
		names = append(names, name)
	}
	kinds := make([]token.Kind, 0, len(names))
	for _, name := range names {
		k, err := parseFixedKind(src, name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var out []*Entry
	for _, k := range kinds {
		for i, form := range data.Keywords[k.String()] {
			e, err := newEntry(id, src, form, k)
			if err != nil {
				return nil, err
			}
			e.Primary = i == 0
			out = append(out, e)
		}
	}

	for _, ed := range data.Entries {
		k, err := parseFixedKind(src, ed.Kind)
		if err != nil {
			return nil, err
		}
		e, err := newEntry(id, src, ed.Form, k)
		if err != nil {
			return nil, err
		}
		e.Primary = ed.Primary
		if ed.InfixMin < 0 {
			return nil, &InvalidDataError{Kind: InvalidForm, Source: src, Detail: fmt.Sprintf("%q: negative infix_min", ed.Form)}
		}
		e.InfixMin = ed.InfixMin
		if e.When, err = parsePredicate(src, ed); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func parseFixedKind(src, name string) (token.Kind, error) {
	k, ok := token.ParseKind(name)
	if !ok || !k.HasFixedSpelling() {
		return token.Unknown, &InvalidDataError{Kind: InvalidKind, Source: src, Detail: name}
	}
	return k, nil
}

func newEntry(id locale.ID, src, form string, k token.Kind) (*Entry, error) {
	nf := normalizeForm(form)
	if nf == "" {
		return nil, &InvalidDataError{Kind: InvalidForm, Source: src, Detail: fmt.Sprintf("empty form for %s", k)}
	}
	if !utf8.ValidString(nf) || strings.ContainsAny(nf, "\"\n") {
		return nil, &InvalidDataError{Kind: InvalidForm, Source: src, Detail: fmt.Sprintf("%q", form)}
	}
	return &Entry{Form: nf, Words: splitWords(nf), Kind: k, Origin: id}, nil
}

func parsePredicate(src string, ed EntryData) (Predicate, error) {
	var p Predicate
	var err error
	for _, name := range ed.After {
		k, ok := token.ParseKind(name)
		if !ok {
			return p, &InvalidDataError{Kind: InvalidKind, Source: src, Detail: name}
		}
		p.After = append(p.After, k)
	}
	for _, name := range ed.NotAfter {
		k, ok := token.ParseKind(name)
		if !ok {
			return p, &InvalidDataError{Kind: InvalidKind, Source: src, Detail: name}
		}
		p.NotAfter = append(p.NotAfter, k)
	}
	if p.LineStart, err = ParseCond(ed.LineStart); err != nil {
		return p, &InvalidDataError{Kind: InvalidCondition, Source: src, Detail: "line_start", Err: err}
	}
	if p.LineEnd, err = ParseCond(ed.LineEnd); err != nil {
		return p, &InvalidDataError{Kind: InvalidCondition, Source: src, Detail: "line_end", Err: err}
	}
	return p, nil
}

// mergeEntries copies inherited entries not overridden by own forms, then
// appends own entries. Copies keep the parent table untouched.
func mergeEntries(parent *Table, own []*Entry) []*Entry {
	ownForms := make(map[string]struct{}, len(own))
	for _, e := range own {
		ownForms[e.Form] = struct{}{}
	}
	var out []*Entry
	if parent != nil {
		for _, e := range parent.entries {
			if _, overridden := ownForms[e.Form]; overridden {
				continue
			}
			cp := *e
			out = append(out, &cp)
		}
	}
	return append(out, own...)
}

func checkExclusive(id locale.ID, entries []*Entry) error {
	byForm := make(map[string][]*Entry)
	var forms []string
	for _, e := range entries {
		if _, seen := byForm[e.Form]; !seen {
			forms = append(forms, e.Form)
		}
		byForm[e.Form] = append(byForm[e.Form], e)
	}
	for _, form := range forms {
		group := byForm[form]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if !a.When.ExclusiveWith(b.When) {
					return &DuplicateEntryError{
						Locale: id, Form: form,
						First: a.Kind, Second: b.Kind,
						FirstWhen: a.When, SecondWhen: b.When,
					}
				}
			}
		}
	}
	return nil
}

// resolvePrimaries picks one preferred spelling per kind: an own primary,
// else the inherited primary, else the first unconditional entry.
func (t *Table) resolvePrimaries(src string, own []*Entry, parent *Table) error {
	for _, e := range own {
		if !e.Primary {
			continue
		}
		if prev, dup := t.primary[e.Kind]; dup {
			return &InvalidDataError{Kind: InvalidPrimary, Source: src, Detail: fmt.Sprintf("%s has primaries %q and %q", e.Kind, prev.Form, e.Form)}
		}
		t.primary[e.Kind] = e
	}
	var inheritedPrimary map[token.Kind]string
	if parent != nil {
		inheritedPrimary = make(map[token.Kind]string, len(parent.primary))
		for k, e := range parent.primary {
			inheritedPrimary[k] = e.Form
		}
	}
	for _, e := range t.entries {
		if _, done := t.primary[e.Kind]; done {
			continue
		}
		if e.Origin != t.id && inheritedPrimary[e.Kind] == e.Form {
			t.primary[e.Kind] = e
		}
	}
	for _, e := range t.entries {
		if _, done := t.primary[e.Kind]; !done && e.When.IsZero() && !e.Infix() {
			t.primary[e.Kind] = e
		}
	}
	for _, e := range t.entries {
		p, ok := t.primary[e.Kind]
		if !ok {
			return &InvalidDataError{Kind: InvalidPrimary, Source: src, Detail: fmt.Sprintf("%s has no unconditional spelling", e.Kind)}
		}
		if !p.When.IsZero() || p.Infix() {
			return &InvalidDataError{Kind: InvalidPrimary, Source: src, Detail: fmt.Sprintf("primary %q of %s must not carry conditions", p.Form, p.Kind)}
		}
		e.Primary = e == p
	}
	return nil
}

// computeFingerprint hashes everything that influences lookups, in a fixed order.
func (t *Table) computeFingerprint() [32]byte {
	h := sha256.New()
	writeStr := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s))) // #nosec G115 -- forms are short
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeStr(t.id.String())
	writeStr(t.seg.String())
	for _, q := range t.quotes {
		writeStr(string([]rune{q.Open, q.Close}))
	}
	nis := make([]rune, 0, len(t.notIdentStart))
	for r := range t.notIdentStart {
		nis = append(nis, r)
	}
	slices.Sort(nis)
	writeStr(string(nis))
	for _, e := range t.entries {
		writeStr(e.Form)
		writeStr(e.Kind.String())
		writeStr(e.When.String())
		writeStr(fmt.Sprintf("%t/%d", e.Primary, e.InfixMin))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func normalizeForm(form string) string {
	return strings.Join(strings.Fields(norm.NFC.String(form)), " ")
}

func singleRune(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, false
	}
	return r, true
}

func decodeRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '　'
}
