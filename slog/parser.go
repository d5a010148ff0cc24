package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   pageparse.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next pageparse.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(ctx context.Context, target pageparse.FetchTarget, opts pageparse.ParseOptions) (result pageparse.Result, err error) {
	defer func(begin time.Time) {
		logResult(ctx, p.logger, "parse", err,
			"url", target.URL,
			"categories", len(result),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.Parse(ctx, target, opts)
}
