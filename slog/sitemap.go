package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   pageparse.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next pageparse.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pageparse.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		logResult(ctx, s.logger, "sitemap discovery", err,
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// logResult logs at info level, or at warn level with the error attached
// when err is set.
func logResult(ctx context.Context, logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		logger.WarnContext(ctx, msg, append(args, "err", err)...)
		return
	}
	logger.InfoContext(ctx, msg, args...)
}
