package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/driver"
	"quill/internal/ui"
)

type fmtOutcome struct {
	results []driver.FormatResult
	err     error
}

// runFmtWithUI drives the formatter from a goroutine while Bubble Tea owns
// the terminal, feeding per-file events into the progress model.
func runFmtWithUI(ctx context.Context, paths []string, opts driver.FormatOptions, jobs int) ([]driver.FormatResult, error) {
	files, err := driver.ListSourceFiles(ctx, paths, opts.Config)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan fmtOutcome, 1)

	go func() {
		sink := func(e driver.Event) { events <- e }
		results, runErr := driver.FormatFiles(ctx, files, opts, jobs, sink)
		outcomeCh <- fmtOutcome{results: results, err: runErr}
		close(events)
	}()

	model := ui.NewProgressModel("formatting", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
