package evtable

import "io"

// URLImporter reads source URLs out of a flat file. The orchestrator seeds
// the work table from whatever it returns; an empty result is a
// nothing-to-do condition, not an error.
type URLImporter interface {
	Import(r io.Reader) ([]string, error)
}

// TableExporter writes the completed rows of a table to a flat file.
// Implementations are expected to bound peak transient memory regardless of
// table size.
type TableExporter interface {
	Export(w io.Writer, t Table) error
}
