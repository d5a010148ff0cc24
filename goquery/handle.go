package goquery

import (
	"bytes"
	"context"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pageparse"
)

// Handle is the lazily parsed document of one pipeline run.
// The first call to Document fetches and parses the target; every later
// call returns the same document, or the same error, without touching the
// network again. A Handle must not be reused across runs.
type Handle struct {
	fetcher pageparse.Fetcher
	target  pageparse.FetchTarget

	once sync.Once
	doc  *goquery.Document
	err  error
}

// NewHandle returns a Handle that fetches target with fetcher on first use.
func NewHandle(fetcher pageparse.Fetcher, target pageparse.FetchTarget) *Handle {
	return &Handle{fetcher: fetcher, target: target}
}

// Document returns the parsed document, fetching it on the first call.
func (h *Handle) Document(ctx context.Context) (*goquery.Document, error) {
	h.once.Do(func() {
		h.doc, h.err = h.load(ctx)
	})
	return h.doc, h.err
}

func (h *Handle) load(ctx context.Context) (*goquery.Document, error) {
	res, err := h.fetcher.Fetch(ctx, h.target)
	if err != nil {
		return nil, err
	}

	// The html5 parser recovers from any markup; an error here means the
	// reader itself failed.
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, pageparse.Errorf(pageparse.EINTERNAL, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
