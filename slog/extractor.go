// Package slog provides logging decorators for the service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/evtable/evtable"
)

// Ensure LoggingExtractor implements evtable.Extractor.
var _ evtable.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with per-call logging.
type LoggingExtractor struct {
	next   evtable.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next evtable.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, url string) (extraction *evtable.Extraction, err error) {
	defer func(begin time.Time) {
		fields := 0
		if extraction != nil {
			fields = len(extraction.Fields)
		}
		e.logger.Info("extraction",
			"url", url,
			"fields", fields,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, url)
}
