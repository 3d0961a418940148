package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qawarn/internal/driver"
	"qawarn/internal/ui"
)

type aggregateOutcome struct {
	result *driver.Result
	err    error
}

// progressView consumes progress events until it is done or closed by the
// user; it may return before events is closed.
type progressView func(events <-chan driver.Event) error

// runAggregateWithUI runs driver.AggregateFiles while a Bubble Tea program
// renders its progress events on stderr.
func runAggregateWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	view := func(events <-chan driver.Event) error {
		model := ui.NewProgressModel(title, files, events)
		program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
		final, err := program.Run()
		if err != nil {
			return err
		}
		if m, ok := final.(interface{ Interrupted() bool }); ok && m.Interrupted() {
			return context.Canceled
		}
		return nil
	}
	return aggregateWithView(ctx, files, opts, view)
}

// aggregateWithView runs the aggregation in the background and hands its
// events to view. When view returns before the run is over, the run is
// cancelled instead of left to finish every file.
func aggregateWithView(ctx context.Context, files []string, opts driver.Options, view progressView) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan aggregateOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.AggregateFiles(ctx, files, opts)
		outcomeCh <- aggregateOutcome{result: res, err: err}
		close(events)
	}()

	viewErr := view(events)
	// keep the workers from blocking on a channel nobody reads
	go func() {
		for range events {
		}
	}()

	var outcome aggregateOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		cancel()
		outcome = <-outcomeCh
	}
	if viewErr != nil {
		return outcome.result, viewErr
	}
	return outcome.result, outcome.err
}
