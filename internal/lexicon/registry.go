package lexicon

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

//go:embed locales/*.toml
var embedded embed.FS

// Registry owns the tables of every known locale. It is immutable once built.
type Registry struct {
	tables     map[locale.ID]*Table
	selectable []locale.ID // non-abstract ids, sorted
	matcher    language.Matcher
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return LoadRegistry(sub)
})

// Default returns the registry of the locales shipped with the binary.
// It is built on first use and shared afterwards.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// MustDefault is Default for program startup: a broken embedded lexicon is fatal.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(fmt.Errorf("embedded lexicon: %w", err))
	}
	return r
}

// EmbeddedFS exposes the shipped locale files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadRegistry decodes every *.toml file in fsys, adds extra, and builds the
// registry.
func LoadRegistry(fsys fs.FS, extra ...Data) (*Registry, error) {
	names, err := fs.Glob(fsys, "*.toml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	all := make([]Data, 0, len(names)+len(extra))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		d, err := DecodeData(path.Base(name), raw)
		if err != nil {
			return nil, err
		}
		all = append(all, d)
	}
	all = append(all, extra...)
	return NewRegistry(all...)
}

// DecodeData parses one TOML locale file. Unknown keys are rejected so that
// typos do not silently drop entries.
func DecodeData(name string, raw []byte) (Data, error) {
	var d Data
	md, err := toml.NewDecoder(bytes.NewReader(raw)).Decode(&d)
	if err != nil {
		return Data{}, &InvalidDataError{Kind: InvalidDecode, Source: name, Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Data{}, &InvalidDataError{Kind: InvalidUnknownKey, Source: name, Detail: strings.Join(keys, ", ")}
	}
	d.Source = name
	return d, nil
}

// NewRegistry builds tables for all data, parents before children, and checks
// keyword parity between selectable locales.
func NewRegistry(data ...Data) (*Registry, error) {
	byID := make(map[locale.ID]Data, len(data))
	order := make([]locale.ID, 0, len(data))
	for _, d := range data {
		id, err := locale.Parse(d.ID)
		if err != nil {
			return nil, &InvalidDataError{Kind: InvalidLocaleID, Source: d.source(), Detail: d.ID, Err: err}
		}
		if prev, dup := byID[id]; dup {
			return nil, &InvalidDataError{Kind: InvalidDuplicateLocale, Source: d.source(), Detail: fmt.Sprintf("%s also defined in %s", id, prev.source())}
		}
		byID[id] = d
		order = append(order, id)
	}
	slices.Sort(order)

	r := &Registry{tables: make(map[locale.ID]*Table, len(byID))}
	var build func(id locale.ID, chain []locale.ID) (*Table, error)
	build = func(id locale.ID, chain []locale.ID) (*Table, error) {
		if t, ok := r.tables[id]; ok {
			return t, nil
		}
		d := byID[id]
		if slices.Contains(chain, id) {
			return nil, &InvalidDataError{Kind: InvalidInherits, Source: d.source(), Detail: "inheritance cycle"}
		}
		var parent *Table
		if d.Inherits != "" {
			pid, err := locale.Parse(d.Inherits)
			if err != nil {
				return nil, &InvalidDataError{Kind: InvalidInherits, Source: d.source(), Detail: d.Inherits, Err: err}
			}
			if _, ok := byID[pid]; !ok {
				return nil, &InvalidDataError{Kind: InvalidInherits, Source: d.source(), Detail: fmt.Sprintf("unknown parent %s", pid)}
			}
			if parent, err = build(pid, append(chain, id)); err != nil {
				return nil, err
			}
		}
		t, err := Build(d, parent)
		if err != nil {
			return nil, err
		}
		r.tables[id] = t
		return t, nil
	}
	for _, id := range order {
		if _, err := build(id, nil); err != nil {
			return nil, err
		}
	}

	tags := make([]language.Tag, 0, len(order))
	for _, id := range order {
		if r.tables[id].abstract {
			continue
		}
		r.selectable = append(r.selectable, id)
		tags = append(tags, id.Tag())
	}
	if err := checkParity(r); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		r.matcher = language.NewMatcher(tags)
	}
	return r, nil
}

// checkParity verifies that every selectable locale reaches the same kinds.
func checkParity(r *Registry) error {
	if len(r.selectable) < 2 {
		return nil
	}
	union := make(map[token.Kind]locale.ID)
	for _, id := range r.selectable {
		for _, k := range r.tables[id].Kinds() {
			if _, ok := union[k]; !ok {
				union[k] = id
			}
		}
	}
	for _, id := range r.selectable {
		t := r.tables[id]
		var missing []token.Kind
		var ref locale.ID
		for _, k := range token.Kinds() {
			from, ok := union[k]
			if ok && len(t.byKind[k]) == 0 {
				missing = append(missing, k)
				ref = from
			}
		}
		if len(missing) > 0 {
			return &ParityError{Locale: id, Reference: ref, Missing: missing}
		}
	}
	return nil
}

// Table returns the table of a selectable locale.
func (r *Registry) Table(id locale.ID) (*Table, error) {
	t, ok := r.tables[id]
	if !ok || t.abstract {
		return nil, &LocaleNotSupportedError{Locale: id.String(), Supported: r.IDs()}
	}
	return t, nil
}

// Lookup parses a user supplied locale and returns its table.
func (r *Registry) Lookup(s string) (*Table, error) {
	id, err := locale.Parse(s)
	if err != nil {
		return nil, &LocaleNotSupportedError{Locale: s, Supported: r.IDs()}
	}
	return r.Table(id)
}

// Match maps a loose preference ("zh", "en-GB") to the closest supported locale.
func (r *Registry) Match(pref string) (locale.ID, error) {
	if r.matcher == nil {
		return "", &LocaleNotSupportedError{Locale: pref, Supported: r.IDs()}
	}
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(pref), "_", "-"))
	if err != nil {
		return "", &LocaleNotSupportedError{Locale: pref, Supported: r.IDs()}
	}
	_, idx, conf := r.matcher.Match(tag)
	if conf == language.No {
		return "", &LocaleNotSupportedError{Locale: pref, Supported: r.IDs()}
	}
	return r.selectable[idx], nil
}

// IDs lists the selectable locales in sorted order.
func (r *Registry) IDs() []locale.ID {
	return slices.Clone(r.selectable)
}

// Tables returns the selectable tables in the order of IDs.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, len(r.selectable))
	for i, id := range r.selectable {
		out[i] = r.tables[id]
	}
	return out
}
