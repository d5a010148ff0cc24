package crawl

import (
	"context"

	"github.com/fwojciec/pageparse"
)

// Run executes the single-URL pipeline for target and classifies the
// result. Every error, and any panic below it, becomes a Failure outcome.
func Run(ctx context.Context, parser pageparse.Parser, target pageparse.FetchTarget, opts pageparse.ParseOptions) (outcome pageparse.Outcome) {
	defer func() {
		if v := recover(); v != nil {
			outcome = pageparse.Failure(target.URL, pageparse.Errorf(pageparse.EINTERNAL, "panic: %v", v))
		}
	}()

	if err := ctx.Err(); err != nil {
		return pageparse.Failure(target.URL, err)
	}

	result, err := parser.Parse(ctx, target, opts)
	if err != nil {
		return pageparse.Failure(target.URL, err)
	}
	return pageparse.Success(target.URL, result)
}
