package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

// Entry pairs one surface form with a canonical kind.
type Entry struct {
	Form    string   // NFC, words joined by a single space
	Words   []string // Form split on whitespace
	Kind    token.Kind
	Primary bool // preferred spelling of Kind for rendering
	When    Predicate
	// InfixMin > 0 marks an infix form (possessive 的): it only applies between
	// two identifier parts of at least InfixMin runes each.
	InfixMin int
	Origin   locale.ID // table that declared the entry
}

// Infix reports whether the entry only applies between identifier parts.
func (e *Entry) Infix() bool { return e.InfixMin > 0 }

// StartsWord reports whether the form begins with an identifier rune, so it
// must not touch a preceding word.
func (e *Entry) StartsWord() bool {
	r, _ := utf8.DecodeRuneInString(e.Form)
	return IsWordRune(r)
}

// EndsWord reports whether the form ends with an identifier rune.
func (e *Entry) EndsWord() bool {
	r, _ := utf8.DecodeLastRuneInString(e.Form)
	return IsWordRune(r)
}

// IsWordRune reports whether r may appear inside an identifier.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func splitWords(form string) []string {
	return strings.Fields(form)
}
