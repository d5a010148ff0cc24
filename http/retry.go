package http

import (
	"context"
	"time"

	"github.com/fwojciec/pageparse"
)

// withRetry runs attempt once plus once per delay while failures are
// transient. It returns the last error when every attempt fails.
func withRetry(ctx context.Context, delays []time.Duration, attempt func(context.Context) (*pageparse.FetchResult, error)) (*pageparse.FetchResult, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		res, err := attempt(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if i >= maxAttempts-1 || !isTransient(err) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[i]):
		}
	}

	return nil, lastErr
}
