// Package observ measures how long the pipeline stages take for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed run of a stage (load, tokenize, canonicalize, render).
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	ended bool
}

// Timer records phases. Safe for concurrent use; a nil *Timer records nothing,
// so callers never check before Track.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin opens a phase and returns its handle for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End closes phase idx; unknown or already closed handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) || t.phases[idx].ended {
		return
	}
	p := &t.phases[idx]
	p.Dur, p.Note, p.ended = t.now().Sub(p.Start), note, true
}

// Track is Begin with End bound into the returned func.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// PhaseReport is the aggregate of every run of one stage.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	// Count > 1 when the stage ran once per file.
	Count int    `json:"count" msgpack:"count"`
	Note  string `json:"note,omitempty" msgpack:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report merges phases by name in first-seen order. Open phases count
// with zero duration.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var rep Report
	byName := make(map[string]int, len(t.phases))
	var total time.Duration
	for _, p := range t.phases {
		i, ok := byName[p.Name]
		if !ok {
			i = len(rep.Phases)
			byName[p.Name] = i
			rep.Phases = append(rep.Phases, PhaseReport{Name: p.Name})
		}
		r := &rep.Phases[i]
		r.DurationMS += millis(p.Dur)
		r.Count++
		if p.Note != "" {
			r.Note = p.Note
		}
		total += p.Dur
	}
	rep.TotalMS = millis(total)
	return rep
}

// Summary is the --timings table for a terminal.
func (t *Timer) Summary() string {
	rep := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range rep.Phases {
		name := p.Name
		if p.Count > 1 {
			name = fmt.Sprintf("%s ×%d", p.Name, p.Count)
		}
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", rep.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
