// Package slog provides logging decorators for pipeline services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/goc9000/pgbook"
)

// Ensure LoggingFetcher implements pgbook.PageFetcher.
var _ pgbook.PageFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a PageFetcher with debug logging.
type LoggingFetcher struct {
	next   pgbook.PageFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pgbook.PageFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, ref string) (data []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"ref", ref,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, ref)
}

// CachePath delegates to the wrapped fetcher.
func (f *LoggingFetcher) CachePath(ref string) string {
	return f.next.CachePath(ref)
}
