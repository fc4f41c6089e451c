// Package trace records what the canonicalization pipeline is doing, for
// diagnosing slow runs and hangs.
//
// Enable tracing via command-line flags:
//
//	lexcanon canon --trace=- --trace-level=detail src/
//	lexcanon canon --trace-mode=ring --trace-heartbeat=2s src/
//
// Sinks: Nop when disabled, StreamTracer writes every event as it happens,
// RingTracer keeps the last events in memory for a dump when a command
// panics, Inflight remembers which spans are still open so heartbeats can
// say which files a stuck run is working on. MultiTracer fans out to several.
//
// LevelPhase emits ScopeDriver (one span per command) and ScopePass (load,
// tokenize, canonicalize, render). LevelDetail adds ScopeFile spans, one per
// source file. LevelDebug adds ScopeToken points for tokens no lexicon
// entry claimed.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "canonicalize", parentID)
//	defer span.End("")
package trace
