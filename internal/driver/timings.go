package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"lexcanon/internal/observ"
)

// TimingPayload is the machine-readable form of a --timings report.
type TimingPayload struct {
	Kind    string               `json:"kind" msgpack:"kind"`
	Path    string               `json:"path,omitempty" msgpack:"path,omitempty"`
	TotalMS float64              `json:"total_ms" msgpack:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases" msgpack:"phases"`
}

// NewTimingPayload snapshots t. kind names the command, e.g. "canon".
func NewTimingPayload(kind, path string, t *observ.Timer) TimingPayload {
	if kind == "" {
		kind = "pipeline"
	}
	report := t.Report()
	return TimingPayload{
		Kind:    kind,
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
}

// Headline is the one-line summary printed before the phase table.
func (p TimingPayload) Headline() string {
	msg := fmt.Sprintf("timings (%s): total %.2f ms", p.Kind, p.TotalMS)
	if p.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, p.Path)
	}
	return msg
}

// WriteJSON writes the payload as one JSON line.
func (p TimingPayload) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}
