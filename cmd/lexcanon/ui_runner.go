package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lexcanon/internal/driver"
	"lexcanon/internal/source"
	"lexcanon/internal/ui"
)

type dirOutcome struct {
	fileSet *source.FileSet
	results []driver.DirResult
	err     error
}

// runDirWithUI canonicalizes dir while a Bubble Tea program on stderr shows
// per-file progress. The observer feeds the UI; the program exits when the
// event channel is closed.
func runDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, []driver.DirResult, error) {
	files, err := driver.ListSourceFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.PhaseEvent, 256)
	outcomeCh := make(chan dirOutcome, 1)

	prev := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		if prev != nil {
			prev(ev)
		}
		events <- ev
	}
	go func() {
		fs, results, err := driver.CanonicalizeDir(ctx, dir, opts)
		outcomeCh <- dirOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// если UI вышел раньше, дочитываем события, чтобы воркеры не встали
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
