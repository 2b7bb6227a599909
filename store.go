package evtable

import "context"

// RecordStore is an upsert-capable tabular store keyed by source URL.
type RecordStore interface {
	// Upsert writes the given records with insert-or-overwrite semantics
	// on the url key: re-submitting the same URL refreshes the stored row
	// rather than silently skipping it. Returns the number of rows saved.
	Upsert(ctx context.Context, records []*Record) (int, error)
}
