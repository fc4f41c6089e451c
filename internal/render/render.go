// Package render spells canonical tokens in a target locale.
//
// Only kinds with a fixed spelling (keywords and punctuation) are rendered
// from the target table; identifiers and literals keep their source text.
package render

import (
	"fmt"

	"lexcanon/internal/lexicon"
	"lexcanon/internal/locale"
	"lexcanon/internal/token"
)

// UnrenderableTokenError is returned for kinds that have no spelling of their
// own, such as identifiers, literals and Unknown.
type UnrenderableTokenError struct {
	Kind   token.Kind
	Locale locale.ID
}

func (e *UnrenderableTokenError) Error() string {
	if e.Kind.HasFixedSpelling() {
		return fmt.Sprintf("%s has no spelling in locale %s", e.Kind, e.Locale)
	}
	return fmt.Sprintf("%s has no fixed spelling", e.Kind)
}

// RenderKind returns the preferred spelling of kind in tbl.
func RenderKind(kind token.Kind, tbl *lexicon.Table) (string, error) {
	if !kind.HasFixedSpelling() {
		return "", &UnrenderableTokenError{Kind: kind, Locale: tbl.ID()}
	}
	form, ok := tbl.Primary(kind)
	if !ok {
		return "", &UnrenderableTokenError{Kind: kind, Locale: tbl.ID()}
	}
	return form, nil
}

// Render returns the spelling of tok's kind in tbl.
func Render(tok token.Token, tbl *lexicon.Table) (string, error) {
	return RenderKind(tok.Kind, tbl)
}
