package driver

import (
	"sync"

	"lexcanon/internal/diag"
	"lexcanon/internal/project"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
)

// minimal per-process cache by cache key
type cached struct {
	tokens []token.Token
	diags  []diag.Diagnostic
}

// StreamCache provides an in-memory cache of canonical streams. Entries are
// shared, callers get copies with spans rebased onto their own file.
type StreamCache struct {
	mu    sync.RWMutex
	byKey map[project.Digest]cached
}

// NewStreamCache creates a StreamCache with the given capacity hint.
func NewStreamCache(capHint int) *StreamCache {
	return &StreamCache{byKey: make(map[project.Digest]cached, capHint)}
}

// Get retrieves a stream by key, rebased onto file.
func (c *StreamCache) Get(key project.Digest, file source.FileID) ([]token.Token, []diag.Diagnostic, bool) {
	if c == nil {
		return nil, nil, false
	}
	c.mu.RLock()
	rec, ok := c.byKey[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	toks, diags := rebase(rec.tokens, rec.diags, file)
	return toks, diags, true
}

// Put inserts a stream. tokens and diags must not be modified afterwards.
func (c *StreamCache) Put(key project.Digest, tokens []token.Token, diags []diag.Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byKey[key] = cached{tokens: tokens, diags: diags}
	c.mu.Unlock()
}

// Len reports the number of cached streams.
func (c *StreamCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

func lookupCache(opts *Options, key project.Digest, file source.FileID) ([]token.Token, []diag.Diagnostic, bool) {
	if toks, diags, ok := opts.Memo.Get(key, file); ok {
		return toks, diags, true
	}
	if opts.Disk == nil {
		return nil, nil, false
	}
	var payload DiskPayload
	ok, err := opts.Disk.Get(key, &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion {
		return nil, nil, false
	}
	opts.Memo.Put(key, payload.Tokens, payload.Diagnostics)
	toks, diags := rebase(payload.Tokens, payload.Diagnostics, file)
	return toks, diags, true
}

func storeCache(opts *Options, key project.Digest, tokens []token.Token, diags []diag.Diagnostic) {
	if len(tokens) == 0 {
		return
	}
	opts.Memo.Put(key, tokens, diags)
	if opts.Disk != nil {
		// ошибка записи не фатальна
		_ = opts.Disk.Put(key, &DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Locale:      opts.Table.ID().String(),
			Fingerprint: opts.Table.FingerprintHex(),
			Tokens:      tokens,
			Diagnostics: diags,
		})
	}
}

// rebase copies a cached stream and points every span at file.
func rebase(tokens []token.Token, diags []diag.Diagnostic, file source.FileID) ([]token.Token, []diag.Diagnostic) {
	toks := make([]token.Token, len(tokens))
	for i, tok := range tokens {
		tok.Span.File = file
		if len(tok.Leading) > 0 {
			leading := make([]token.Trivia, len(tok.Leading))
			for j, tv := range tok.Leading {
				tv.Span.File = file
				leading[j] = tv
			}
			tok.Leading = leading
		}
		toks[i] = tok
	}
	var out []diag.Diagnostic
	if len(diags) > 0 {
		out = make([]diag.Diagnostic, len(diags))
	}
	for i, d := range diags {
		d.Primary.File = file
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = file
				notes[j] = n
			}
			d.Notes = notes
		}
		if len(d.Fixes) > 0 {
			fixes := make([]diag.Fix, len(d.Fixes))
			for j, fx := range d.Fixes {
				edits := make([]diag.FixEdit, len(fx.Edits))
				for k, e := range fx.Edits {
					e.Span.File = file
					edits[k] = e
				}
				fx.Edits = edits
				fixes[j] = fx
			}
			d.Fixes = fixes
		}
		out[i] = d
	}
	return toks, out
}
