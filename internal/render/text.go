package render

import (
	"strings"
	"unicode/utf8"

	"lexcanon/internal/lexicon"
	"lexcanon/internal/token"
)

// Text spells a canonical stream in the locale of tbl. Keywords and
// punctuation come from the table, everything else keeps its source text.
//
// Layout comes from the tokens: leading trivia that holds a newline or a
// comment is copied as written, and a single space separates tokens that
// were apart in the source or whose spellings would otherwise run together.
// Streams built without trivia come out on one line.
func Text(tokens []token.Token, tbl *lexicon.Table) string {
	var (
		b         strings.Builder
		prev      *token.Token
		prevPiece string
	)
	for i := range tokens {
		tok := &tokens[i]
		layout := layoutOf(tok.Leading)
		if tok.Kind == token.EOF {
			b.WriteString(layout)
			break
		}
		piece := spell(tokens, i, tbl)
		switch {
		case layout != "":
			b.WriteString(layout)
		case prev != nil && (apart(prev, tok) || glued(prevPiece, piece)):
			b.WriteByte(' ')
		}
		b.WriteString(piece)
		prev, prevPiece = tok, piece
	}
	return b.String()
}

func spell(tokens []token.Token, i int, tbl *lexicon.Table) string {
	tok := tokens[i]
	punct := tbl.Punctuation()
	switch tok.Kind {
	case token.Dot:
		if atLineEnd(tokens, i) && punct.StatementEnd != "" {
			return punct.StatementEnd
		}
	case token.Colon:
		if atLineEnd(tokens, i) && punct.BlockStart != "" {
			return punct.BlockStart
		}
	case token.Comma:
		if punct.ListSeparator != "" {
			return punct.ListSeparator
		}
	case token.StringLit:
		return requote(tok, tbl)
	}
	if s, err := Render(tok, tbl); err == nil {
		return s
	}
	return tok.Text
}

func atLineEnd(tokens []token.Token, i int) bool {
	if i+1 >= len(tokens) {
		return true
	}
	next := tokens[i+1]
	return next.Kind == token.EOF || next.HasNewline()
}

// layoutOf returns the trivia to copy verbatim, or "" when it is only spaces.
func layoutOf(trivia []token.Trivia) string {
	keep := false
	for _, tv := range trivia {
		if tv.Kind != token.TriviaSpace {
			keep = true
			break
		}
	}
	if !keep {
		return ""
	}
	var b strings.Builder
	for _, tv := range trivia {
		b.WriteString(tv.Text)
	}
	return b.String()
}

func apart(prev, tok *token.Token) bool {
	return prev.Span.File == tok.Span.File && prev.Span.End < tok.Span.Start
}

func glued(left, right string) bool {
	l, _ := utf8.DecodeLastRuneInString(left)
	r, _ := utf8.DecodeRuneInString(right)
	return lexicon.IsWordRune(l) && lexicon.IsWordRune(r)
}

// requote keeps a string whose delimiters the target accepts and rewrites
// it with the target's preferred pair otherwise.
func requote(tok token.Token, tbl *lexicon.Table) string {
	open, _ := utf8.DecodeRuneInString(tok.Text)
	last, _ := utf8.DecodeLastRuneInString(tok.Text)
	if closing, ok := tbl.CloseQuote(open); ok && closing == last {
		return tok.Text
	}
	quotes := tbl.Quotes()
	if len(quotes) == 0 {
		return tok.Text
	}
	q := quotes[0]
	var b strings.Builder
	b.WriteRune(q.Open)
	for _, r := range tok.Value.Str {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case q.Close:
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q.Close)
	return b.String()
}
