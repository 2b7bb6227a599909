package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/evtable/evtable"
)

// Ensure LoggingRecordStore implements evtable.RecordStore.
var _ evtable.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with per-call logging.
type LoggingRecordStore struct {
	next   evtable.RecordStore
	logger *slog.Logger
}

// NewLoggingRecordStore creates a new LoggingRecordStore.
func NewLoggingRecordStore(next evtable.RecordStore, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, logger: logger}
}

// Upsert delegates to the wrapped store and logs the operation.
func (s *LoggingRecordStore) Upsert(ctx context.Context, records []*evtable.Record) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("record upsert",
			"records", len(records),
			"written", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, records)
}
