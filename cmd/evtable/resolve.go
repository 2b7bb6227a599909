package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/batch"
	"github.com/evtable/evtable/csvcodec"
)

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: cannot open %q\n", c.File)
			return err
		}
		defer f.Close()

		urls, err := csvcodec.NewImporter(c.Column - 1).Import(f)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", evtable.ErrorMessage(err))
			return err
		}
		deps.Session.URLs = deps.Session.URLs.Append(urls...)
		if !deps.Session.URLs.AllChecked() {
			deps.Session.URLs = deps.Session.URLs.ToggleAll()
		}
	}

	urls, res, err := deps.Resolver.Run(deps.Ctx, deps.Session.URLs)
	if errors.Is(err, batch.ErrNothingToDo) {
		fmt.Fprintln(deps.Stdout, "Nothing to do: no checked rows awaiting resolution.")
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evtable.ErrorMessage(err))
		return err
	}

	deps.Session.URLs, deps.Session.Work = urls.Forward(deps.Session.Work)
	if err := deps.Sessions.Save(deps.Session); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Resolved %d URLs (%d failed), work table now has %d rows\n",
		res.Extracted, res.Failed, deps.Session.Work.Len())
	return nil
}
