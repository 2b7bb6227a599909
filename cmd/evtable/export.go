package main

import (
	"fmt"
	"os"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/csvcodec"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	f, err := os.Create(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot create %q\n", c.File)
		return err
	}
	defer f.Close()

	if err := csvcodec.NewExporter().Export(f, deps.Session.Work); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evtable.ErrorMessage(err))
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	var rows int
	for _, item := range deps.Session.Work.Items() {
		if item.Status == evtable.StatusDone || item.Status == evtable.StatusSentToDb {
			rows++
		}
	}
	fmt.Fprintf(deps.Stdout, "Exported %d rows to %q\n", rows, c.File)
	return nil
}
