package canon

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexer"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

// Canonicalizer maps raw spans to canonical tokens under one lexicon table.
// It keeps no state between calls and is safe for concurrent use.
type Canonicalizer struct {
	tbl  *lexicon.Table
	opts Options
}

func New(tbl *lexicon.Table, opts Options) *Canonicalizer {
	return &Canonicalizer{tbl: tbl, opts: opts}
}

func (c *Canonicalizer) Table() *lexicon.Table { return c.tbl }

// Canonicalize consumes raws (all spans of file, trivia included) and returns
// the canonical token stream terminated by EOF.
func (c *Canonicalizer) Canonicalize(file *source.File, raws iter.Seq[token.Raw]) []token.Token {
	st := newState(c, file, slices.Collect(raws))
	st.walk()
	return st.out
}

// Source tokenizes file under tbl and canonicalizes the result. The only
// error is *lexer.MalformedInputError.
func Source(file *source.File, tbl *lexicon.Table, opts Options) ([]token.Token, error) {
	stream, err := lexer.Tokenize(file, tbl, lexer.Options{Reporter: opts.Reporter})
	if err != nil {
		return nil, err
	}
	return New(tbl, opts).Canonicalize(file, stream.All()), nil
}

// state is the per-call scratch of Canonicalize.
type state struct {
	c    *Canonicalizer
	tbl  *lexicon.Table
	file *source.File
	rs   []token.Raw
	// lineEnd[i]: no significant span in rs[i:] before the next newline.
	lineEnd []bool

	out     []token.Token
	leading []token.Trivia
	// lineHasSig is set once a token is emitted on the current line.
	lineHasSig bool
	// identRunes is the rune length of the last token when it is an identifier.
	identRunes int
}

func newState(c *Canonicalizer, file *source.File, rs []token.Raw) *state {
	lineEnd := make([]bool, len(rs)+1)
	lineEnd[len(rs)] = true
	for i := len(rs) - 1; i >= 0; i-- {
		switch k := rs[i].Kind; {
		case k == token.RawNewline:
			lineEnd[i] = true
		case k.IsTrivia():
			lineEnd[i] = lineEnd[i+1]
		}
	}
	return &state{
		c:       c,
		tbl:     c.tbl,
		file:    file,
		rs:      rs,
		lineEnd: lineEnd,
		out:     make([]token.Token, 0, len(rs)/2+1),
	}
}

func (s *state) walk() {
	for i := 0; i < len(s.rs); {
		r := s.rs[i]
		if !r.Kind.IsTrivia() {
			i = s.significant(i)
			continue
		}
		if r.Kind == token.RawNewline {
			s.lineHasSig = false
		}
		if s.c.opts.KeepTrivia {
			tv, _ := token.TriviaFromRaw(r)
			s.leading = append(s.leading, tv)
		}
		i++
	}
	s.emit(token.Token{Kind: token.EOF, Span: s.eofSpan()})
}

// significant emits the token(s) starting at rs[i] and returns the index of
// the first span it did not consume.
func (s *state) significant(i int) int {
	if end, e, ok := s.match(i); ok {
		s.emit(token.Token{Kind: e.Kind, Span: s.cover(i, end), Text: s.text(i, end)})
		return end
	}
	r := s.rs[i]
	switch r.Kind {
	case token.RawString:
		s.emit(stringToken(r))
		return i + 1
	case token.RawWord, token.RawNumber:
		return s.classifyRun(i)
	default: // punctuation no form claims, RawInvalid
		s.unknown(i, i+1, diag.CanonUnknownToken, "unknown token "+r.Text)
		return i + 1
	}
}

func (s *state) emit(tok token.Token) {
	if len(s.leading) > 0 {
		tok.Leading = s.leading
		s.leading = nil
	}
	s.identRunes = 0
	if tok.Kind == token.Ident {
		s.identRunes = utf8.RuneCountInString(tok.Value.Str)
	}
	s.lineHasSig = true
	s.out = append(s.out, tok)
}

func (s *state) unknown(start, end int, code diag.Code, msg string) {
	tok := token.Token{Kind: token.Unknown, Span: s.cover(start, end), Text: s.text(start, end)}
	s.emit(tok)
	if s.c.opts.ReportUnknown && s.c.opts.Reporter != nil {
		diag.ReportWarning(s.c.opts.Reporter, code, tok.Span, msg).
			WithArgs(s.rs[start].Text).
			Emit()
	}
}

// context describes a form that ends just before rs[end].
func (s *state) context(end int) lexicon.Context {
	ctx := lexicon.Context{
		LineStart: !s.lineHasSig,
		LineEnd:   s.lineEnd[end],
	}
	if n := len(s.out); n > 0 {
		ctx.Prev, ctx.HasPrev = s.out[n-1].Kind, true
	}
	return ctx
}

func (s *state) cover(start, end int) source.Span {
	return s.rs[start].Span.Cover(s.rs[end-1].Span)
}

func (s *state) text(start, end int) string {
	if end-start == 1 {
		return s.rs[start].Text
	}
	var b strings.Builder
	for _, r := range s.rs[start:end] {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (s *state) eofSpan() source.Span {
	if s.file != nil {
		size := s.file.Size()
		return source.Span{File: s.file.ID, Start: size, End: size}
	}
	if n := len(s.rs); n > 0 {
		last := s.rs[n-1].Span
		return source.Span{File: last.File, Start: last.End, End: last.End}
	}
	return source.Span{}
}

func nfc(s string) string { return norm.NFC.String(s) }
