package mock

import (
	"context"

	"github.com/fwojciec/pageparse"
)

var _ pageparse.Parser = (*Parser)(nil)

// Parser is a mock implementation of pageparse.Parser.
type Parser struct {
	ParseFn func(ctx context.Context, target pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error)
}

func (p *Parser) Parse(ctx context.Context, target pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error) {
	return p.ParseFn(ctx, target, opts)
}
