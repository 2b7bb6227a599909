package main

import (
	"fmt"

	"github.com/evtable/evtable"
)

// Run executes the save command.
func (c *SaveCmd) Run(deps *Dependencies) error {
	work, saved, err := deps.Saver.Save(deps.Ctx, deps.Session.Work)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evtable.ErrorMessage(err))
		return err
	}
	if saved == 0 {
		fmt.Fprintln(deps.Stdout, "Nothing to do: no checked rows with extracted data.")
		return nil
	}

	deps.Session.Work = work
	if err := deps.Sessions.Save(deps.Session); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d records\n", saved)
	return nil
}
