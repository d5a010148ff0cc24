package mock

import (
	"context"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.PageService = (*PageService)(nil)

// PageService is a mock implementation of pageparse.PageService.
type PageService struct {
	UpsertPageFn    func(ctx context.Context, page *pageparse.Page) error
	FindPageByURLFn func(ctx context.Context, url string) (*pageparse.Page, error)
	FindPagesFn     func(ctx context.Context, filter pageparse.PageFilter) ([]*pageparse.Page, error)
}

func (s *PageService) UpsertPage(ctx context.Context, page *pageparse.Page) error {
	return s.UpsertPageFn(ctx, page)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*pageparse.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter pageparse.PageFilter) ([]*pageparse.Page, error) {
	return s.FindPagesFn(ctx, filter)
}
