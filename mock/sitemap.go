package mock

import (
	"context"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of pageparse.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *pageparse.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pageparse.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
