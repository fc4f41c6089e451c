package trace

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Inflight remembers spans that began and have not ended yet.
type Inflight struct {
	mu    sync.Mutex
	open  map[uint64]openSpan
	level Level
}

type openSpan struct {
	seq   uint64
	label string
}

func NewInflight(level Level) *Inflight {
	return &Inflight{open: make(map[uint64]openSpan), level: level}
}

func (t *Inflight) Emit(ev *Event) {
	if ev.SpanID == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev.Kind {
	case KindSpanBegin:
		t.open[ev.SpanID] = openSpan{seq: ev.Seq, label: ev.label()}
	case KindSpanEnd:
		delete(t.open, ev.SpanID)
	}
}

// Labels returns open spans oldest first: the file path for file spans,
// the span name otherwise.
func (t *Inflight) Labels() []string {
	t.mu.Lock()
	spans := make([]openSpan, 0, len(t.open))
	for _, s := range t.open {
		spans = append(spans, s)
	}
	t.mu.Unlock()
	slices.SortFunc(spans, func(a, b openSpan) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.label
	}
	return out
}

func (t *Inflight) Flush() error  { return nil }
func (t *Inflight) Close() error  { return nil }
func (t *Inflight) Level() Level  { return t.level }
func (t *Inflight) Enabled() bool { return t.level > LevelOff }

// maxHeartbeatLabels caps how many open spans one heartbeat names.
const maxHeartbeatLabels = 4

// Heartbeat emits KindHeartbeat events on a timer until stopped.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat begins emitting heartbeats to t. If t is or wraps an
// Inflight, each heartbeat lists what is still open.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	in := inflightOf(t)
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var n int
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				n++
				t.Emit(&Event{
					Time:   time.Now(),
					Seq:    seq.Add(1),
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					Name:   "heartbeat",
					Detail: heartbeatDetail(n, in),
				})
			}
		}
	}()
	return h
}

// Stop waits for the heartbeat goroutine to exit. Safe to call twice.
func (h *Heartbeat) Stop() {
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

func heartbeatDetail(n int, in *Inflight) string {
	detail := "#" + strconv.Itoa(n)
	if in == nil {
		return detail
	}
	labels := in.Labels()
	if len(labels) == 0 {
		return detail
	}
	shown := labels[:min(len(labels), maxHeartbeatLabels)]
	detail += " open: " + strings.Join(shown, ", ")
	if rest := len(labels) - len(shown); rest > 0 {
		detail += " +" + strconv.Itoa(rest)
	}
	return detail
}

func inflightOf(t Tracer) *Inflight {
	switch t := t.(type) {
	case *Inflight:
		return t
	case *MultiTracer:
		return t.Inflight()
	}
	return nil
}
