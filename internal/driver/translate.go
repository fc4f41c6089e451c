package driver

import (
	"context"
	"fmt"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/render"
	"lexcanon/internal/token"
	"lexcanon/internal/trace"
)

// TranslateResult is a canonicalized file re-rendered in another locale.
type TranslateResult struct {
	*CanonResult
	Target *lexicon.Table
	Text   string
}

// Translate canonicalizes path under opts.Table and renders the stream in
// target. Files that are not valid UTF-8 have no tokens and render as "".
func Translate(ctx context.Context, path string, opts Options, target *lexicon.Table) (*TranslateResult, error) {
	res, err := Canonicalize(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return &TranslateResult{
		CanonResult: res,
		Target:      target,
		Text:        renderText(ctx, res.Tokens, target, res.Bag, &opts),
	}, nil
}

// renderText spells toks in target. Unknown tokens are copied as written;
// each one is reported to bag as LocUnrenderable. A rendering that target
// reads back differently is an error (LocMeaningChanged).
func renderText(ctx context.Context, toks []token.Token, target *lexicon.Table, bag *diag.Bag, opts *Options) string {
	if len(toks) == 0 {
		return ""
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "render", trace.CurrentSpan(ctx).SpanID)
	done := opts.Timer.Track("render")
	text := render.Text(toks, target)
	done(target.ID().String())
	span.End("")

	if bag != nil {
		r := diag.BagReporter{Bag: bag}
		for _, tok := range toks {
			if tok.Kind != token.Unknown {
				continue
			}
			diag.ReportWarning(r, diag.LocUnrenderable, tok.Span,
				fmt.Sprintf("%q has no spelling in %s; kept as written", tok.Text, target.ID())).
				WithArgs(tok.Text, target.ID().String()).
				Emit()
		}
		if m, changed := render.ReadBack(toks, target, text); changed {
			name := m.Token.Text
			if name == "" {
				name = m.Token.Kind.String()
			}
			diag.ReportError(r, diag.LocMeaningChanged, m.Token.Span,
				fmt.Sprintf("%q reads back as %s in %s; rename it before translating", name, m.Got.Kind, target.ID())).
				WithArgs(name, m.Got.Kind.String(), target.ID().String()).
				Emit()
		}
	}
	return text
}
