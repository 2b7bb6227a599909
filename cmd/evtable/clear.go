package main

import (
	"fmt"

	"github.com/evtable/evtable"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm reset\n")
		return evtable.Errorf(evtable.EINVALID, "use --force to confirm reset")
	}

	deps.Session.Work = deps.Session.Work.Clear()
	deps.Session.URLs = deps.Session.URLs.Clear()
	if err := deps.Sessions.Save(deps.Session); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Session cleared")
	return nil
}
