// Package mock provides function-field mock implementations of the evtable
// domain interfaces for use in tests.
package mock

import (
	"context"

	"github.com/evtable/evtable"
)

var _ evtable.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of evtable.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, url string) (*evtable.Extraction, error)
}

func (e *Extractor) Extract(ctx context.Context, url string) (*evtable.Extraction, error) {
	return e.ExtractFn(ctx, url)
}

var _ evtable.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of evtable.RecordStore.
type RecordStore struct {
	UpsertFn func(ctx context.Context, records []*evtable.Record) (int, error)
}

func (s *RecordStore) Upsert(ctx context.Context, records []*evtable.Record) (int, error) {
	return s.UpsertFn(ctx, records)
}

var _ evtable.URLResolver = (*URLResolver)(nil)

// URLResolver is a mock implementation of evtable.URLResolver.
type URLResolver struct {
	ResolveFn func(ctx context.Context, url string) (string, error)
}

func (r *URLResolver) Resolve(ctx context.Context, url string) (string, error) {
	return r.ResolveFn(ctx, url)
}

var _ evtable.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of evtable.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
