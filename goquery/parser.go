package goquery

import (
	"context"

	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/pageparse"
)

var _ pageparse.Parser = (*Parser)(nil)

// Parser runs the extraction passes requested in ParseOptions against a
// single fetched document.
type Parser struct {
	Fetcher pageparse.Fetcher

	// Converter renders the markdown category. Optional unless markdown
	// is requested.
	Converter pageparse.Converter
}

// NewParser creates a Parser.
func NewParser(fetcher pageparse.Fetcher, converter pageparse.Converter) *Parser {
	return &Parser{Fetcher: fetcher, Converter: converter}
}

// Parse fetches target once and extracts every requested category.
// Invalid options are rejected before anything is fetched.
func (p *Parser) Parse(ctx context.Context, target pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Categories) == 0 {
		opts.Categories = pageparse.DefaultCategories
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateSelectors(opts); err != nil {
		return nil, err
	}

	h := NewHandle(p.Fetcher, target)
	result := make(pageparse.Result, len(opts.Categories))
	for _, c := range opts.Categories {
		doc, err := h.Document(ctx)
		if err != nil {
			return nil, err
		}
		rec, err := p.extract(doc, c, opts)
		if err != nil {
			return nil, err
		}
		result[c] = rec
	}
	return result, nil
}

func validateSelectors(opts pageparse.ParseOptions) error {
	for _, c := range opts.Categories {
		var sel string
		switch c {
		case pageparse.CategorySelect:
			sel = opts.Selector
		case pageparse.CategoryBlock:
			sel = opts.Block
		default:
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			return pageparse.Errorf(pageparse.EINVALID, "invalid selector %q: %v", sel, err)
		}
	}
	return nil
}
