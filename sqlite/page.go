package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pageparse"
	"github.com/google/uuid"
)

var _ pageparse.PageService = (*PageService)(nil)

// PageService implements pageparse.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// hashContent returns the big-endian hex form of the xxHash of content.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// UpsertPage inserts the page or replaces the row stored for its URL.
// A replaced row keeps its original ID.
func (s *PageService) UpsertPage(ctx context.Context, page *pageparse.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if page.Status == "" {
		page.Status = pageparse.PageStatusCompleted
	}
	if page.Content == "" {
		page.Content = "{}"
	}
	page.ContentHash = hashContent(page.Content)
	page.ParsedAt = time.Now().UTC().Truncate(time.Second)

	return s.db.QueryRowContext(ctx, `
		INSERT INTO parsed_pages (id, url, title, content, content_hash, status, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			status = excluded.status,
			parsed_at = excluded.parsed_at
		RETURNING id
	`, uuid.New().String(), page.URL, page.Title, page.Content, page.ContentHash,
		page.Status, page.ParsedAt.Format(time.RFC3339)).Scan(&page.ID)
}

// FindPageByURL retrieves the page stored for url.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*pageparse.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, content, content_hash, status, parsed_at
		FROM parsed_pages
		WHERE url = ?
	`, url)

	page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, pageparse.Errorf(pageparse.ENOTFOUND, "page not found")
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// FindPages retrieves pages matching the filter, most recently parsed
// first.
func (s *PageService) FindPages(ctx context.Context, filter pageparse.PageFilter) ([]*pageparse.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, content, content_hash, status, parsed_at FROM parsed_pages WHERE 1=1")

	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	query.WriteString(" ORDER BY parsed_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []*pageparse.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*pageparse.Page, error) {
	var page pageparse.Page
	var parsedAt string
	if err := row.Scan(&page.ID, &page.URL, &page.Title, &page.Content,
		&page.ContentHash, &page.Status, &parsedAt); err != nil {
		return nil, err
	}

	var err error
	if page.ParsedAt, err = parseRFC3339(parsedAt, "parsed_at"); err != nil {
		return nil, err
	}
	return &page, nil
}
