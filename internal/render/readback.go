package render

import (
	"lexcanon/internal/canon"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

// Mismatch is the first source token that the target locale reads back as
// something else.
type Mismatch struct {
	Token token.Token // from the source stream
	Got   token.Token // what tbl reads at the same position
}

// ReadBack canonicalizes text, the rendering of tokens, under tbl and
// compares the result with tokens. Identifiers must keep their text, every
// other token only its kind. A name that spells a keyword of tbl, or one
// that joins a neighbouring keyword into a longer form, shows up here.
func ReadBack(tokens []token.Token, tbl *lexicon.Table, text string) (Mismatch, bool) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("rendered", []byte(text)))
	got, err := canon.Source(file, tbl, canon.Options{})
	if err != nil {
		// text собран из валидных UTF-8 токенов
		return Mismatch{}, false
	}
	for i, tok := range tokens {
		if i >= len(got) {
			return Mismatch{Token: tok, Got: token.Token{Kind: token.EOF}}, true
		}
		if !sameMeaning(tok, got[i]) {
			return Mismatch{Token: tok, Got: got[i]}, true
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return Mismatch{}, false
}

func sameMeaning(want, got token.Token) bool {
	if want.Kind != got.Kind {
		return false
	}
	return want.Kind != token.Ident || want.Text == got.Text
}
