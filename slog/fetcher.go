// Package slog decorates pageparse services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   pageparse.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pageparse.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, target pageparse.FetchTarget) (res *pageparse.FetchResult, err error) {
	defer func(begin time.Time) {
		var size, status int
		if res != nil {
			size, status = len(res.Body), res.StatusCode
		}
		logResult(ctx, f.logger, "fetch", err,
			"url", target.URL,
			"proxy", target.Proxy != nil,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, target)
}
