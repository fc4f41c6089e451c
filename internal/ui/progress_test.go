package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"lexcanon/internal/driver"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		ev   driver.PhaseEvent
		want string
	}{
		{driver.PhaseEvent{Name: driver.PhaseTokenize, Status: driver.PhaseStart}, statusTokenizing},
		{driver.PhaseEvent{Name: driver.PhaseCanonicalize, Status: driver.PhaseStart}, statusCanonicalizing},
		{driver.PhaseEvent{Name: driver.PhaseCanonicalize, Status: driver.PhaseEnd}, statusDone},
		{driver.PhaseEvent{Name: driver.PhaseCanonicalize, Status: driver.PhaseEnd, Cached: true}, statusCached},
		{driver.PhaseEvent{Name: driver.PhaseTokenize, Status: driver.PhaseEnd}, ""},
		{driver.PhaseEvent{Name: driver.PhaseLoad, Status: driver.PhaseFailed}, statusError},
		{driver.PhaseEvent{Name: driver.PhaseLoad, Status: driver.PhaseStart}, ""},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.ev); got != tt.want {
			t.Errorf("statusLabel(%+v) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestProgressModelEvents(t *testing.T) {
	events := make(chan driver.PhaseEvent)
	m := NewProgressModel("canon", []string{"a.lc", "b.lc"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.lc", Name: driver.PhaseTokenize, Status: driver.PhaseStart})
	if m.items[0].status != statusTokenizing {
		t.Fatalf("a.lc status = %q", m.items[0].status)
	}
	m.Update(eventMsg{File: "a.lc", Name: driver.PhaseCanonicalize, Status: driver.PhaseEnd})
	m.Update(eventMsg{File: "b.lc", Name: driver.PhaseLoad, Status: driver.PhaseFailed})
	m.Update(eventMsg{File: "zzz.lc", Name: driver.PhaseLoad, Status: driver.PhaseFailed})

	if m.finished() != 2 || m.percent() != 1.0 {
		t.Errorf("finished=%d percent=%v", m.finished(), m.percent())
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("doneMsg must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	view := m.View()
	if !strings.Contains(view, "done: canon (2/2)") {
		t.Errorf("view header missing:\n%s", view)
	}
	if !strings.Contains(view, "a.lc") || !strings.Contains(view, statusError) {
		t.Errorf("view rows missing:\n%s", view)
	}
}

func TestProgressModelEmpty(t *testing.T) {
	m := NewProgressModel("canon", nil, nil)
	if m.View() != "" {
		t.Error("empty model renders nothing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.lc", 20, "short.lc"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 3, "abc"},
		{"源文件目录/总数.lc", 9, "源文件..."},
		{"源文件目录/总数.lc", 8, "源文..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
