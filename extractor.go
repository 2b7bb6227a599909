package evtable

import "context"

// Extraction holds the outcome of a single extraction call: a structured
// field guess plus the raw document text the guess was derived from.
type Extraction struct {
	// Fields is the structured-data guess, keyed by the field vocabulary.
	// Values may arrive in any of the tolerated shapes; Record.Normalize
	// is the coercion boundary.
	Fields map[string]FieldValue

	// RawText is the document text (markdown) for the source URL.
	RawText string
}

// Extractor maps a source URL to a structured extraction result.
// Implementations are remote calls; the context controls timeout and
// cancellation.
type Extractor interface {
	Extract(ctx context.Context, url string) (*Extraction, error)
}
