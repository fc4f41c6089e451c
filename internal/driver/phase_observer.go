package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseFailed ends a phase whose file produced errors.
	PhaseFailed
)

// Phase names reported to observers.
const (
	PhaseLoad         = "load"
	PhaseTokenize     = "tokenize"
	PhaseCanonicalize = "canonicalize"
)

// PhaseEvent describes a timing phase boundary. File is empty for
// run-wide phases.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Cached  bool
}

// PhaseObserver receives phase events. Directory runs call it from worker
// goroutines, so it must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)
