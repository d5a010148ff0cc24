package pageparse

import (
	"context"
	"encoding/json"
	"time"
)

// Page is the stored form of one parsed URL.
type Page struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // JSON-encoded Result
	ContentHash string    `json:"contentHash"`
	Status      string    `json:"status"`
	ParsedAt    time.Time `json:"parsedAt"`
}

// PageStatusCompleted marks a page whose result was stored in full.
const PageStatusCompleted = "completed"

// NewPage builds the stored form of a successful outcome.
func NewPage(o Outcome) (*Page, error) {
	if !o.OK() {
		return nil, Errorf(EINVALID, "cannot store failed outcome for %s", o.URL)
	}
	content, err := json.Marshal(o.Data)
	if err != nil {
		return nil, Errorf(EINTERNAL, "encode result for %s: %v", o.URL, err)
	}
	p := &Page{URL: o.URL, Content: string(content), Status: PageStatusCompleted}
	if title := o.Data.Title(); title != nil {
		p.Title = *title
	}
	return p, nil
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	return nil
}

// PageService persists parsed pages, one row per URL.
type PageService interface {
	// UpsertPage inserts the page or replaces the row stored for its URL.
	// ID, ContentHash and ParsedAt are set on the given page.
	UpsertPage(ctx context.Context, page *Page) error

	// FindPageByURL retrieves the page stored for url.
	// Returns ENOTFOUND if no page exists.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages retrieves pages matching the filter, newest first.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	Status *string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
