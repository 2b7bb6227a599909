package main

import (
	"fmt"
	"os"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/csvcodec"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
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
	if len(urls) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no URLs found in %q\n", c.File)
		return evtable.Errorf(evtable.EINVALID, "no URLs found in %q", c.File)
	}

	deps.Session.Work = deps.Session.Work.Append(urls...)
	if err := deps.Sessions.Save(deps.Session); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d URLs (%d rows total)\n", len(urls), deps.Session.Work.Len())
	return nil
}
