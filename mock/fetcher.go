package mock

import (
	"context"

	"github.com/fwojciec/pageparse"
)

var (
	_ pageparse.Fetcher       = (*Fetcher)(nil)
	_ pageparse.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of pageparse.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, target pageparse.FetchTarget) (*pageparse.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, target pageparse.FetchTarget) (*pageparse.FetchResult, error) {
	return f.FetchFn(ctx, target)
}

// DomainLimiter is a mock implementation of pageparse.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
