// Package crawl runs the parsing pipeline over many URLs with bounded
// concurrency, keeping per-URL failures isolated and results in input
// order.
package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/pageparse"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pipeline runs allowed in flight
// when Batch.Concurrency is not set.
const DefaultConcurrency = 4

// Batch fans a list of targets out to the single-URL pipeline.
type Batch struct {
	Parser pageparse.Parser

	// Concurrency caps the number of pipeline runs in flight.
	Concurrency int

	// Options are applied to every target.
	Options pageparse.ParseOptions

	// Pages, if set, receives every successful outcome after the batch
	// has been collected. Storage failures are logged and do not change
	// the returned outcomes.
	Pages pageparse.PageService

	Logger *slog.Logger
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. It is always
// called from a single goroutine.
type ProgressFunc func(event ProgressEvent)

type batchResult struct {
	position int
	outcome  pageparse.Outcome
}

// Run parses every target and returns one outcome per target, in input
// order. It never fails as a whole: fetch errors, extraction errors,
// panics and context cancellation all become Failure outcomes in place.
func (b *Batch) Run(ctx context.Context, targets []pageparse.FetchTarget, progress ProgressFunc) []pageparse.Outcome {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}

	total := len(targets)
	outcomes := make([]pageparse.Outcome, total)
	resultCh := make(chan batchResult, total)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	// A plain Group: one failed URL must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, target := range targets {
			g.Go(func() error {
				resultCh <- batchResult{
					position: i,
					outcome:  Run(ctx, b.Parser, target, b.Options),
				}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	completed := 0
	for result := range resultCh {
		completed++
		outcomes[result.position] = result.outcome

		o := result.outcome
		if o.OK() {
			logger.Debug("parsed", "url", o.URL, "completed", completed, "total", total)
		} else {
			logger.Warn("parse failed", "url", o.URL, "err", o.Error)
		}
		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: o.URL}
		if !o.OK() {
			event.Type = ProgressFailed
			event.Error = o.Error
		}
		progress(event)
	}

	if b.Pages != nil {
		b.store(ctx, logger, outcomes)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return outcomes
}

func (b *Batch) store(ctx context.Context, logger *slog.Logger, outcomes []pageparse.Outcome) {
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		page, err := pageparse.NewPage(o)
		if err == nil {
			err = b.Pages.UpsertPage(ctx, page)
		}
		if err != nil {
			logger.Warn("store page failed", "url", o.URL, "err", err)
		}
	}
}

// URLs builds fetch targets sharing one proxy configuration.
func URLs(urls []string, proxy *pageparse.ProxyConfig) []pageparse.FetchTarget {
	targets := make([]pageparse.FetchTarget, len(urls))
	for i, u := range urls {
		targets[i] = pageparse.NewFetchTarget(u, proxy)
	}
	return targets
}
