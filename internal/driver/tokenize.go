package driver

import (
	"context"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexer"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
	"lexcanon/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Raws    []token.Raw
	Bag     *diag.Bag
}

// Tokenize loads a file and returns its raw spans, trivia included.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "tokenize", trace.CurrentSpan(ctx).SpanID)
	defer span.End(path)

	fs := source.NewFileSet()
	file, err := loadFile(fs, path, &opts)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	done := opts.Timer.Track(PhaseTokenize)
	stream, err := lexer.Tokenize(file, opts.Table, lexer.Options{Reporter: reporter})
	var raws []token.Raw
	if err != nil {
		reportMalformed(reporter, file, err)
	} else {
		raws = stream.Collect()
	}
	done(path)

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Raws:    raws,
		Bag:     bag,
	}, nil
}
