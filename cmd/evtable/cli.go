package main

import (
	"context"
	"io"
	"time"

	"github.com/evtable/evtable"
	"github.com/evtable/evtable/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Sessions  *SessionStore
	Session   *Session
	Resolver  *batch.Resolver
	Processor *batch.Processor
	Saver     *batch.Saver
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service calls to stderr"`

	Import  ImportCmd  `cmd:"" help:"Seed the work table with event URLs from a CSV file"`
	Resolve ResolveCmd `cmd:"" help:"Derive event site URLs from listing pages and forward them to the work table"`
	Check   CheckCmd   `cmd:"" help:"Toggle row selection"`
	Extract ExtractCmd `cmd:"" help:"Extract event data for selected rows"`
	Save    SaveCmd    `cmd:"" help:"Persist extracted rows to the database"`
	Export  ExportCmd  `cmd:"" help:"Export extracted rows to a CSV file"`
	List    ListCmd    `cmd:"" help:"Show the work table"`
	Clear   ClearCmd   `cmd:"" help:"Reset the session"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File   string `arg:"" help:"CSV file containing event URLs"`
	Column int    `short:"c" default:"0" help:"1-based URL column; 0 picks the first non-empty cell per line"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	File    string        `arg:"" optional:"" help:"CSV file of listing-page URLs to add before resolving; added rows are selected automatically"`
	Column  int           `short:"c" default:"0" help:"1-based URL column; 0 picks the first non-empty cell per line"`
	RPS     float64       `default:"1" help:"Max requests per second per host"`
	Timeout time.Duration `default:"30s" help:"Per-call timeout"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	All      bool  `help:"Toggle every row"`
	Rows     []int `help:"Visible row numbers to toggle (1-based, repeatable)"`
	Page     int   `default:"1" help:"Page the row numbers refer to"`
	PageSize int   `default:"50" help:"Rows per page"`
	URLs     bool  `help:"Operate on the URL table instead of the work table"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Extractor   string        `default:"firecrawl" enum:"firecrawl,gemini" help:"Extraction backend"`
	Concurrency int           `short:"c" default:"1" help:"Concurrent extraction calls"`
	RPS         float64       `default:"1" help:"Max requests per second per host"`
	Timeout     time.Duration `default:"60s" help:"Per-call timeout"`
}

// SaveCmd is the "save" subcommand.
type SaveCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	File string `arg:"" help:"Destination CSV file"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Page     int  `default:"1" help:"Page to show"`
	PageSize int  `default:"50" help:"Rows per page"`
	URLs     bool `help:"Show the URL table instead of the work table"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm reset"`
}

// toggleRows applies --all / --rows selection to a table-like value via the
// provided callbacks.
func toggleRows(c *CheckCmd, toggleAll func(), toggle func(absolute int) error) error {
	if c.All {
		toggleAll()
		return nil
	}
	if len(c.Rows) == 0 {
		return evtable.Errorf(evtable.EINVALID, "specify --all or --rows")
	}
	for _, n := range c.Rows {
		if n < 1 {
			return evtable.Errorf(evtable.EINVALID, "row numbers are 1-based, got %d", n)
		}
		if err := toggle(evtable.AbsoluteIndex(c.PageSize, c.Page, n-1)); err != nil {
			return err
		}
	}
	return nil
}
