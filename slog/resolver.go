package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/evtable/evtable"
)

// Ensure LoggingResolver implements evtable.URLResolver.
var _ evtable.URLResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a URLResolver with per-call logging.
type LoggingResolver struct {
	next   evtable.URLResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next evtable.URLResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Resolve(ctx context.Context, url string) (resolved string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("url resolution",
			"url", url,
			"resolved", resolved,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, url)
}
