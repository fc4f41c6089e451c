package lexer

import (
	"fmt"
	"iter"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

// Tokenize checks that file is valid UTF-8 and returns a stream of raw spans
// segmented by the rules of tbl. Scanning problems (unterminated strings, bad
// numbers) are reported to opts.Reporter once, here; iterating the stream
// later never reports again.
func Tokenize(file *source.File, tbl *lexicon.Table, opts Options) (Stream, error) {
	if off, bad := firstInvalid(file.Content); bad {
		return Stream{}, &MalformedInputError{File: file.Path, Offset: off}
	}
	st := Stream{file: file, tbl: tbl}
	if opts.Reporter != nil {
		st.report(opts.Reporter)
	}
	return st, nil
}

func firstInvalid(content []byte) (uint32, bool) {
	if utf8.Valid(content) {
		return 0, false
	}
	for i := 0; i < len(content); {
		r, sz := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && sz <= 1 {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("offset overflow: %w", err))
			}
			return off, true
		}
		i += sz
	}
	return 0, false
}

// Stream is a restartable recipe for scanning one file. It holds no cursor,
// so it can be copied and iterated any number of times.
type Stream struct {
	file *source.File
	tbl  *lexicon.Table
}

func (s Stream) File() *source.File { return s.file }
func (s Stream) Table() *lexicon.Table { return s.tbl }

// Scanner returns a fresh scanner positioned at the start of the file.
func (s Stream) Scanner() *Scanner {
	return &Scanner{file: s.file, tbl: s.tbl, cur: NewCursor(s.file)}
}

// All yields every raw span in source order, trivia included.
func (s Stream) All() iter.Seq[token.Raw] {
	return func(yield func(token.Raw) bool) {
		if s.file == nil {
			return
		}
		sc := s.Scanner()
		for {
			raw, ok := sc.Next()
			if !ok || !yield(raw) {
				return
			}
		}
	}
}

// Collect scans the whole file into a slice.
func (s Stream) Collect() []token.Raw {
	return slices.Collect(s.All())
}

func (s Stream) report(r diag.Reporter) {
	sc := s.Scanner()
	for {
		raw, ok := sc.Next()
		if !ok {
			return
		}
		if raw.Kind != token.RawInvalid {
			continue
		}
		p := sc.problem
		b := diag.ReportError(r, p.code, raw.Span, p.msg).WithArgs(p.args...)
		if p.fix != nil {
			b.WithFix(p.fix.Title, p.fix.Edits...)
		}
		b.Emit()
	}
}

// Scanner walks a file one raw span at a time.
type Scanner struct {
	file *source.File
	tbl  *lexicon.Table
	cur  Cursor
	// problem explains the last RawInvalid span.
	problem problem
}

type problem struct {
	code diag.Code
	msg  string
	args []string
	fix  *diag.Fix
}

// Next returns the next raw span; false at end of input.
func (s *Scanner) Next() (token.Raw, bool) {
	s.problem = problem{}
	if s.cur.EOF() {
		return token.Raw{}, false
	}
	start := s.cur.Mark()
	kind := s.scan()
	sp := s.cur.SpanFrom(start)
	return token.Raw{
		Kind: kind,
		Span: sp,
		Text: string(s.file.Content[sp.Start:sp.End]),
	}, true
}

// Offset is the byte offset of the next span.
func (s *Scanner) Offset() uint32 { return s.cur.Off }

func (s *Scanner) scan() token.RawKind {
	r, _ := s.cur.PeekRune()
	switch {
	case r == '\n':
		s.cur.Bump()
		return token.RawNewline
	case r == bom && s.cur.Off == 0:
		s.cur.BumpRune()
		return s.scanSpace()
	case isSpace(r):
		return s.scanSpace()
	case s.atComment():
		return s.scanComment()
	case isDec(r) && s.gluedToWord():
		s.digits(isDec)
		return token.RawNumber
	case isDec(r):
		return s.scanNumber()
	}
	if closing, ok := s.tbl.CloseQuote(r); ok {
		return s.scanString(closing)
	}
	if lexicon.IsWordRune(r) {
		return s.scanWord()
	}
	s.cur.BumpRune()
	return token.RawPunct
}
