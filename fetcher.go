package pageparse

import "context"

// FetchResult is a successful HTTP response.
// Body has already been converted to UTF-8 where the encoding was known.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a document for a target.
type Fetcher interface {
	// Fetch performs a GET, through the target's proxy when one is set.
	// Non-2xx responses and transport failures are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, target FetchTarget) (*FetchResult, error)
}

// DomainLimiter throttles requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
