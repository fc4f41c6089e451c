package driver

import (
	"lexcanon/internal/lexicon"
	"lexcanon/internal/observ"
)

// Options configures a driver run. Table is required.
type Options struct {
	Table          *lexicon.Table
	MaxDiagnostics int
	ReportUnknown  bool
	KeepTrivia     bool

	// Jobs bounds directory parallelism; 0 means GOMAXPROCS.
	Jobs int
	// Extensions selects files for directory runs, e.g. ".lc".
	Extensions []string

	Timer    *observ.Timer
	Memo     *StreamCache
	Disk     *DiskCache
	Observer PhaseObserver
}

func (o *Options) notify(ev PhaseEvent) {
	if o.Observer != nil {
		o.Observer(ev)
	}
}
