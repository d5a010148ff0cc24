package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.PageService = (*LoggingPageService)(nil)

// LoggingPageService wraps a PageService with logging of writes. Reads
// are logged at debug level.
type LoggingPageService struct {
	next   pageparse.PageService
	logger *slog.Logger
}

// NewLoggingPageService creates a new LoggingPageService.
func NewLoggingPageService(next pageparse.PageService, logger *slog.Logger) *LoggingPageService {
	return &LoggingPageService{next: next, logger: logger}
}

func (s *LoggingPageService) UpsertPage(ctx context.Context, page *pageparse.Page) (err error) {
	defer func(begin time.Time) {
		logResult(ctx, s.logger, "upsert page", err,
			"url", page.URL,
			"id", page.ID,
			"hash", page.ContentHash,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.UpsertPage(ctx, page)
}

func (s *LoggingPageService) FindPageByURL(ctx context.Context, url string) (page *pageparse.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find page", "url", url, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindPageByURL(ctx, url)
}

func (s *LoggingPageService) FindPages(ctx context.Context, filter pageparse.PageFilter) (pages []*pageparse.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find pages", "count", len(pages), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindPages(ctx, filter)
}
