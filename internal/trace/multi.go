package trace

import (
	"errors"
	"io"
)

// MultiTracer fans events out to several sinks. Each sink applies its own
// level filter.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

// Ring returns the first ring sink, or nil.
func (t *MultiTracer) Ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

// Inflight returns the inflight sink, or nil.
func (t *MultiTracer) Inflight() *Inflight {
	for _, tr := range t.tracers {
		if in, ok := tr.(*Inflight); ok {
			return in
		}
	}
	return nil
}

// Dump writes the ring sink, if there is one.
func (t *MultiTracer) Dump(w io.Writer, format Format) error {
	r := t.Ring()
	if r == nil {
		return nil
	}
	return r.Dump(w, format)
}

func (t *MultiTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
