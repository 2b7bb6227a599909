package main

import (
	"fmt"

	"github.com/evtable/evtable"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	var err error
	if c.URLs {
		err = toggleRows(c,
			func() { deps.Session.URLs = deps.Session.URLs.ToggleAll() },
			func(absolute int) error {
				next, terr := deps.Session.URLs.Toggle(absolute)
				if terr != nil {
					return terr
				}
				deps.Session.URLs = next
				return nil
			})
	} else {
		err = toggleRows(c,
			func() { deps.Session.Work = deps.Session.Work.ToggleAll() },
			func(absolute int) error {
				next, terr := deps.Session.Work.Toggle(absolute)
				if terr != nil {
					return terr
				}
				deps.Session.Work = next
				return nil
			})
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evtable.ErrorMessage(err))
		return err
	}

	if err := deps.Sessions.Save(deps.Session); err != nil {
		return err
	}

	var checked int
	if c.URLs {
		for _, item := range deps.Session.URLs.Items() {
			if item.Checked {
				checked++
			}
		}
	} else {
		for _, item := range deps.Session.Work.Items() {
			if item.Checked {
				checked++
			}
		}
	}
	fmt.Fprintf(deps.Stdout, "%d rows selected\n", checked)
	return nil
}
