// Package csvcodec implements the flat-file import/export of the work
// table.
//
// Import is deliberately naive: lines are split on "," without handling
// quoted fields, matching the accepted upload format. A URL containing an
// embedded comma will be truncated at the comma. Export uses standard
// minimal CSV quoting, so exported files are only round-trippable through
// Import when URL values contain no commas.
package csvcodec

import (
	"bufio"
	"io"
	"strings"

	"github.com/evtable/evtable"
)

// DefaultBatchSize is the number of rows buffered per export flush.
const DefaultBatchSize = 64

// Ensure interfaces are implemented at compile time.
var (
	_ evtable.URLImporter   = (*Importer)(nil)
	_ evtable.TableExporter = (*Exporter)(nil)
)

// Importer reads source URLs out of a comma-separated file, one URL-bearing
// column per line, no header assumed.
type Importer struct {
	// Column is the zero-based index of the URL column. A negative value
	// selects the first non-empty cell of each line.
	Column int
}

// NewImporter creates an Importer reading the given column.
func NewImporter(column int) *Importer {
	return &Importer{Column: column}
}

// Import splits the content into non-empty lines and takes the configured
// cell of each as a URL. Lines without a usable cell are skipped; an empty
// result is a nothing-to-do condition for the caller, not an error.
func (imp *Importer) Import(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		if url := pickCell(cells, imp.Column); url != "" {
			urls = append(urls, url)
		}
	}
	return urls, nil
}

// pickCell selects the URL cell: the configured column, or the first
// non-empty cell when column is negative.
func pickCell(cells []string, column int) string {
	if column >= 0 {
		if column >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[column])
	}
	for _, cell := range cells {
		if s := strings.TrimSpace(cell); s != "" {
			return s
		}
	}
	return ""
}

// Exporter writes completed rows as CSV with a fixed column order.
type Exporter struct {
	// BatchSize bounds how many rows are formatted between flushes, so
	// peak transient memory stays constant for arbitrarily large tables.
	// Zero means DefaultBatchSize.
	BatchSize int
}

// NewExporter creates an Exporter with the default batch size.
func NewExporter() *Exporter {
	return &Exporter{BatchSize: DefaultBatchSize}
}

// Export emits a header row followed by one row per Done or SentToDb item.
// Object and list fields are serialized to their canonical JSON encoding
// before quoting.
func (e *Exporter) Export(w io.Writer, t evtable.Table) error {
	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	bw := bufio.NewWriter(w)

	if err := writeRow(bw, evtable.Columns); err != nil {
		return err
	}

	var inBatch int
	for _, item := range t.Items() {
		if item.Status != evtable.StatusDone && item.Status != evtable.StatusSentToDb {
			continue
		}
		if item.Result == nil {
			continue
		}

		row := make([]string, 0, len(evtable.Columns))
		row = append(row, item.URL)
		for _, col := range evtable.Columns[1:] {
			row = append(row, item.Result.CellValue(col))
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}

		inBatch++
		if inBatch >= batchSize {
			if err := bw.Flush(); err != nil {
				return err
			}
			inBatch = 0
		}
	}

	return bw.Flush()
}

// writeRow writes one CSV row with minimal quoting.
func writeRow(w io.Writer, cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, quote(cell)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// quote wraps a cell in double quotes when it contains a comma, quote, or
// newline, doubling internal quotes.
func quote(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
