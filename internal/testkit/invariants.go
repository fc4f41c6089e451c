package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

// CheckRawInvariants runs the coverage invariants on a raw span stream:
// 1) every span is non-empty and points at sf
// 2) spans are contiguous, starting at 0 and ending at the end of content
// 3) every Text equals the content under its span
func CheckRawInvariants(sf *source.File, raws []token.Raw) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := contentLen(sf)
	if err != nil {
		return err
	}
	var prev uint32
	for i, r := range raws {
		if r.Span.File != sf.ID {
			return fmt.Errorf("raw %d: span file mismatch: got=%d want=%d", i, r.Span.File, sf.ID)
		}
		if r.Span.Empty() {
			return fmt.Errorf("raw %d: empty span %v", i, r.Span)
		}
		if r.Span.Start != prev {
			return fmt.Errorf("raw %d: gap or overlap at %d, span %v", i, prev, r.Span)
		}
		if r.Span.End > size {
			return fmt.Errorf("raw %d: span end beyond content: %d > %d", i, r.Span.End, size)
		}
		if got := string(sf.Content[r.Span.Start:r.Span.End]); got != r.Text {
			return fmt.Errorf("raw %d: text %q does not match source %q", i, r.Text, got)
		}
		prev = r.Span.End
	}
	if prev != size {
		return fmt.Errorf("raws end at %d, content has %d bytes", prev, size)
	}
	return nil
}

// CheckTokenInvariants runs the invariants on a canonical token stream:
// 1) the stream ends with exactly one EOF, placed at the end of content
// 2) other spans are non-empty, ordered and non-overlapping
// 3) Text is the source under the span
// 4) leading trivia lies between the previous token and the token itself
func CheckTokenInvariants(sf *source.File, toks []token.Token) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := contentLen(sf)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	last := toks[len(toks)-1]
	if last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %s, want EOF", last.Kind)
	}
	if last.Span.Start != size || last.Span.End != size {
		return fmt.Errorf("EOF span %v, want empty span at %d", last.Span, size)
	}

	var prev uint32
	for i, tok := range toks {
		for _, tv := range tok.Leading {
			if tv.Span.Start < prev || tv.Span.End > tok.Span.Start {
				return fmt.Errorf("token %d: trivia %v outside [%d,%d)", i, tv.Span, prev, tok.Span.Start)
			}
		}
		if tok.Kind == token.EOF {
			if i != len(toks)-1 {
				return fmt.Errorf("token %d: EOF before end of stream", i)
			}
			break
		}
		if tok.Span.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, tok.Span.File, sf.ID)
		}
		if tok.Span.Empty() {
			return fmt.Errorf("token %d: empty span %v", i, tok.Span)
		}
		if tok.Span.Start < prev {
			return fmt.Errorf("token %d: span %v overlaps previous end %d", i, tok.Span, prev)
		}
		if tok.Span.End > size {
			return fmt.Errorf("token %d: span end beyond content: %d > %d", i, tok.Span.End, size)
		}
		if got := string(sf.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
			return fmt.Errorf("token %d: text %q does not match source %q", i, tok.Text, got)
		}
		prev = tok.Span.End
	}
	return nil
}

func contentLen(sf *source.File) (uint32, error) {
	n, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return 0, fmt.Errorf("len content overflow: %w", err)
	}
	return n, nil
}
