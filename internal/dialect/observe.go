package dialect

import (
	"fmt"
	"unicode/utf8"

	"lexcanon/internal/canon"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

// Observe canonicalizes file under tbl and records a hint for every token
// the table recognized. The only error is *lexer.MalformedInputError.
func Observe(e *Evidence, file *source.File, tbl *lexicon.Table) error {
	toks, err := canon.Source(file, tbl, canon.Options{})
	if err != nil {
		return err
	}
	for _, tok := range toks {
		if h, ok := hintFor(tbl, tok); ok {
			e.Add(h)
		}
	}
	return nil
}

// hintFor scores one token. Keywords weigh by length so "else if" beats a
// one-letter coincidence; ASCII punctuation is shared by every locale and
// says nothing.
func hintFor(tbl *lexicon.Table, tok token.Token) (Hint, bool) {
	switch {
	case tok.Kind.IsKeyword():
		return Hint{
			Locale: tbl.ID(),
			Score:  1 + utf8.RuneCountInString(tok.Text),
			Reason: fmt.Sprintf("keyword %q (%s)", tok.Text, tok.Kind),
			Span:   tok.Span,
		}, true
	case tok.Kind.IsPunct() && !ascii(tok.Text):
		return Hint{
			Locale: tbl.ID(),
			Score:  2,
			Reason: fmt.Sprintf("punctuation %q (%s)", tok.Text, tok.Kind),
			Span:   tok.Span,
		}, true
	}
	return Hint{}, false
}

func ascii(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
