package main

import (
	"fmt"

	"github.com/evtable/evtable"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if c.URLs {
		return c.listURLs(deps)
	}

	table := deps.Session.Work
	if table.Len() == 0 {
		fmt.Fprintln(deps.Stdout, "No rows. Use 'evtable import' to add URLs.")
		return nil
	}

	page := clampPage(c.Page, table.PageCount(c.PageSize))
	for i, item := range table.Page(c.PageSize, page) {
		n := evtable.AbsoluteIndex(c.PageSize, page, i) + 1
		extra := ""
		switch item.Status {
		case evtable.StatusDone, evtable.StatusSentToDb:
			if item.Result != nil {
				extra = "  " + item.Result.CellValue("name")
			}
		case evtable.StatusFailed:
			extra = "  " + item.Err
		}
		fmt.Fprintf(deps.Stdout, "%4d %s %-16s %s%s\n", n, checkbox(item.Checked), item.Status, item.URL, extra)
	}
	fmt.Fprintf(deps.Stdout, "Page %d/%d, %d rows\n", page, table.PageCount(c.PageSize), table.Len())
	return nil
}

func (c *ListCmd) listURLs(deps *Dependencies) error {
	table := deps.Session.URLs
	if table.Len() == 0 {
		fmt.Fprintln(deps.Stdout, "No rows. Use 'evtable resolve <file>' to add listing URLs.")
		return nil
	}

	for i, item := range table.Items() {
		extra := item.DerivedURL
		if item.Status == evtable.URLStatusFailed {
			extra = item.Err
		}
		fmt.Fprintf(deps.Stdout, "%4d %s %-10s %s  %s\n", i+1, checkbox(item.Checked), item.Status, item.OriginalURL, extra)
	}
	fmt.Fprintf(deps.Stdout, "%d rows\n", table.Len())
	return nil
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func clampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if pageCount > 0 && page > pageCount {
		return pageCount
	}
	return page
}
