// Package http provides the HTTP side of pageparse: a Fetcher that performs
// GET requests directly or through a proxy, sitemap discovery, and the
// remote parsing API server.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/pageparse"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "pageparse/1.0 (+https://github.com/fwojciec/pageparse)"
	DefaultMaxBodySize  = 5 * 1024 * 1024
)

// Ensure Fetcher implements pageparse.Fetcher at compile time.
var _ pageparse.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents using HTTP GET requests.
// Proxy, charset decoding, retries and rate limiting are independent
// options; a single Fetcher is safe for concurrent use.
type Fetcher struct {
	timeout       time.Duration
	userAgent     string
	maxBodySize   int64
	retryDelays   []time.Duration
	limiter       pageparse.DomainLimiter
	decodeCharset bool

	direct *http.Client

	mu      sync.Mutex
	proxied map[string]*http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each HTTP request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithRetryDelays enables retries of transient failures, waiting delays[i]
// before attempt i+2. By default a failed fetch is not retried.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// WithLimiter throttles every attempt through a per-domain limiter.
func WithLimiter(l pageparse.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithCharsetDecoding toggles conversion of response bodies to UTF-8.
// Enabled by default.
func WithCharsetDecoding(enabled bool) Option {
	return func(f *Fetcher) {
		f.decodeCharset = enabled
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:       DefaultFetchTimeout,
		userAgent:     DefaultUserAgent,
		maxBodySize:   DefaultMaxBodySize,
		decodeCharset: true,
		proxied:       make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.direct = f.newClient(nil)

	return f
}

func (f *Fetcher) newClient(proxy *url.URL) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	return &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}
}

// clientFor returns the client for a proxy, creating it on first use.
// Clients are cached so connections to the same proxy are reused.
func (f *Fetcher) clientFor(proxy *pageparse.ProxyConfig) *http.Client {
	if proxy == nil {
		return f.direct
	}
	u := proxy.URL()
	key := u.String()

	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.proxied[key]
	if !ok {
		client = f.newClient(u)
		f.proxied[key] = client
	}
	return client
}

// Fetch retrieves the document at target.URL.
func (f *Fetcher) Fetch(ctx context.Context, target pageparse.FetchTarget) (*pageparse.FetchResult, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(target.URL)
	if err != nil {
		return nil, pageparse.Errorf(pageparse.EINVALID, "invalid target URL: %v", err)
	}
	client := f.clientFor(target.Proxy)

	return withRetry(ctx, f.retryDelays, func(ctx context.Context) (*pageparse.FetchResult, error) {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
		return f.fetchOnce(ctx, client, target.URL)
	})
}

func (f *Fetcher) fetchOnce(ctx context.Context, client *http.Client, rawURL string) (*pageparse.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if f.decodeCharset {
		body = decodeBestEffort(body, contentType)
	}

	return &pageparse.FetchResult{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Code, e.URL)
}

// isTransient reports whether a failed attempt is worth retrying.
// Client errors (4xx) are final; 5xx and transport errors are not.
func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return pageparse.ErrorCode(err) == pageparse.EINTERNAL
}
