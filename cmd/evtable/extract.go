package main

import (
	"errors"
	"fmt"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/batch"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	progress := func(event batch.Event) {
		switch event.Type {
		case batch.EventStarted:
			fmt.Fprintf(deps.Stdout, "Extracting %d rows\n", event.Total)
		case batch.EventItemCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, event.URL)
		case batch.EventItemFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s: %s\n", event.Completed, event.Total, event.URL, event.Err)
		}
	}

	work, res, err := deps.Processor.Run(deps.Ctx, deps.Session.Work, progress)
	if errors.Is(err, batch.ErrNothingToDo) {
		fmt.Fprintln(deps.Stdout, "Nothing to do: no checked rows awaiting extraction.")
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evtable.ErrorMessage(err))
		return err
	}

	deps.Session.Work = work
	if err := deps.Sessions.Save(deps.Session); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d rows, %d failed\n", res.Extracted, res.Failed)
	return nil
}
