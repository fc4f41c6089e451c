package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lexcanon/internal/canon"
	"lexcanon/internal/diag"
	"lexcanon/internal/lexer"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
	"lexcanon/internal/trace"
)

type CanonResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	// Cached is set when Tokens came from the stream or disk cache.
	Cached bool
}

// Canonicalize loads one file and returns its canonical token stream.
// Lexical problems go to the bag; the error is for I/O only.
func Canonicalize(ctx context.Context, path string, opts Options) (*CanonResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "canonicalize", trace.CurrentSpan(ctx).SpanID)
	defer span.End(path)

	fs := source.NewFileSet()
	file, err := loadFile(fs, path, &opts)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	tokens, cached := canonicalizeFile(ctx, file, bag, &opts, span.ID())
	return &CanonResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Cached:  cached,
	}, nil
}

func loadFile(fs *source.FileSet, path string, opts *Options) (*source.File, error) {
	done := opts.Timer.Track(PhaseLoad)
	fileID, err := fs.Load(path)
	done(path)
	if err != nil {
		return nil, err
	}
	return fs.Get(fileID), nil
}

// canonicalizeFile runs tokenize + canonicalize for a loaded file, going
// through the caches when they are configured. Diagnostics are merged into
// bag. Tokens is nil when the file is not valid UTF-8.
func canonicalizeFile(ctx context.Context, file *source.File, bag *diag.Bag, opts *Options, parent uint64) ([]token.Token, bool) {
	tracer := trace.FromContext(ctx)
	key := cacheKey(file, opts)

	if toks, diags, ok := lookupCache(opts, key, file.ID); ok {
		trace.Point(tracer, trace.ScopeFile, "cache-hit", file.Path, "", parent)
		for _, d := range diags {
			bag.Add(d)
		}
		opts.notify(PhaseEvent{File: file.Path, Name: PhaseCanonicalize, Status: endStatus(diags), Cached: true})
		return toks, true
	}

	local := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: local})

	opts.notify(PhaseEvent{File: file.Path, Name: PhaseTokenize, Status: PhaseStart})
	started := time.Now()
	sp := trace.BeginFile(tracer, "tokenize", file.Path, parent)
	done := opts.Timer.Track(PhaseTokenize)
	stream, err := lexer.Tokenize(file, opts.Table, lexer.Options{Reporter: reporter})
	done(file.Path)
	sp.End("")
	if err != nil {
		reportMalformed(reporter, file, err)
		bag.Merge(local)
		opts.notify(PhaseEvent{File: file.Path, Name: PhaseTokenize, Status: PhaseFailed, Elapsed: time.Since(started)})
		return nil, false
	}

	opts.notify(PhaseEvent{File: file.Path, Name: PhaseCanonicalize, Status: PhaseStart})
	sp = trace.BeginFile(tracer, "canonicalize", file.Path, parent)
	done = opts.Timer.Track(PhaseCanonicalize)
	c := canon.New(opts.Table, canon.Options{
		Reporter:      reporter,
		KeepTrivia:    opts.KeepTrivia,
		ReportUnknown: opts.ReportUnknown,
	})
	toks := c.Canonicalize(file, stream.All())
	done(file.Path)
	sp.WithExtra("tokens", strconv.Itoa(len(toks))).End("")
	traceUnknown(tracer, file, toks, sp.ID())

	storeCache(opts, key, toks, local.Items())
	bag.Merge(local)
	opts.notify(PhaseEvent{File: file.Path, Name: PhaseCanonicalize, Status: endStatus(local.Items()), Elapsed: time.Since(started)})
	return toks, false
}

// traceUnknown emits a ScopeToken point per token no lexicon entry claimed.
func traceUnknown(t trace.Tracer, file *source.File, toks []token.Token, parent uint64) {
	if !t.Level().ShouldEmit(trace.ScopeToken) {
		return
	}
	for _, tok := range toks {
		if tok.Kind != token.Unknown {
			continue
		}
		detail := fmt.Sprintf("%q at %d", tok.Text, tok.Span.Start)
		trace.Point(t, trace.ScopeToken, "unknown", file.Path, detail, parent)
	}
}

func reportMalformed(r diag.Reporter, file *source.File, err error) {
	var mie *lexer.MalformedInputError
	if !errors.As(err, &mie) {
		diag.ReportError(r, diag.LexMalformedInput, source.Span{File: file.ID}, err.Error()).Emit()
		return
	}
	at := source.Span{File: file.ID, Start: mie.Offset, End: mie.Offset}
	diag.ReportError(r, diag.LexMalformedInput, at, err.Error()).
		WithArgs(strconv.FormatUint(uint64(mie.Offset), 10)).
		Emit()
}

func endStatus(diags []diag.Diagnostic) PhaseStatus {
	for _, d := range diags {
		if d.Severity >= diag.SevError {
			return PhaseFailed
		}
	}
	return PhaseEnd
}
