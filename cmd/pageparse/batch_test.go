package main_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/pageparse"
	main "github.com/fwojciec/pageparse/cmd/pageparse"
	"github.com/fwojciec/pageparse/crawl"
	"github.com/fwojciec/pageparse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// urlParser fails for URLs containing "down" and echoes the URL as the title otherwise.
func urlParser() *mock.Parser {
	return &mock.Parser{
		ParseFn: func(_ context.Context, target pageparse.FetchTarget, _ pageparse.ParseOptions) (pageparse.Result, error) {
			if filepath.Base(target.URL) == "down" {
				return nil, errors.New("connection refused")
			}
			return pageparse.Result{pageparse.CategoryTitle: pageparse.Title{Text: strPtr(target.URL)}}, nil
		},
	}
}

// printedOutcome is the JSON shape of one printed outcome, without its data.
type printedOutcome struct {
	URL    string           `json:"url"`
	Status pageparse.Status `json:"status"`
	Error  string           `json:"error"`
}

func newBatchDeps(parser pageparse.Parser) (*main.Dependencies, func() []printedOutcome, func() string) {
	deps, stdout, stderr := newDeps(parser)
	deps.Batch = &crawl.Batch{Parser: parser}
	outcomes := func() []printedOutcome {
		var out []printedOutcome
		if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
			return nil
		}
		return out
	}
	return deps, outcomes, stderr.String
}

func TestBatchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints outcomes in input order with failures in place", func(t *testing.T) {
		t.Parallel()

		deps, outcomes, stderr := newBatchDeps(urlParser())
		cmd := &main.BatchCmd{
			URLs:        []string{"https://a.test/ok", "https://b.test/down", "https://c.test/ok2"},
			Concurrency: 2,
		}

		require.NoError(t, cmd.Run(deps))

		got := outcomes()
		require.Len(t, got, 3)
		assert.Equal(t, "https://a.test/ok", got[0].URL)
		assert.Equal(t, pageparse.StatusSuccess, got[0].Status)
		assert.Equal(t, "https://b.test/down", got[1].URL)
		assert.Equal(t, pageparse.StatusError, got[1].Status)
		assert.Equal(t, "connection refused", got[1].Error)
		assert.Equal(t, "https://c.test/ok2", got[2].URL)
		assert.Equal(t, pageparse.StatusSuccess, got[2].Status)
		assert.Equal(t, 2, deps.Batch.Concurrency)

		assert.Contains(t, stderr(), "Parsing 3 URLs\n")
		assert.Contains(t, stderr(), "skip https://b.test/down: connection refused")
	})

	t.Run("passes extraction options to every pipeline", func(t *testing.T) {
		t.Parallel()

		var gotOpts pageparse.ParseOptions
		parser := &mock.Parser{
			ParseFn: func(_ context.Context, _ pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error) {
				gotOpts = opts
				return pageparse.Result{}, nil
			},
		}
		deps, _, _ := newBatchDeps(parser)
		cmd := &main.BatchCmd{
			URLs:    []string{"https://a.test/"},
			Extract: main.ExtractFlags{Categories: []string{"select"}, Selector: "p.note"},
		}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, []pageparse.Category{pageparse.CategorySelect}, gotOpts.Categories)
		assert.Equal(t, "p.note", gotOpts.Selector)
	})

	t.Run("adds sitemap URLs after the listed ones", func(t *testing.T) {
		t.Parallel()

		var gotFilter *pageparse.URLFilter
		deps, outcomes, _ := newBatchDeps(urlParser())
		deps.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *pageparse.URLFilter) ([]string, error) {
				assert.Equal(t, "https://docs.test/", baseURL)
				gotFilter = filter
				return []string{"https://docs.test/a", "https://docs.test/b"}, nil
			},
		}
		cmd := &main.BatchCmd{
			URLs:    []string{"https://first.test/"},
			Sitemap: "https://docs.test/",
			Include: []string{"/docs"},
		}

		require.NoError(t, cmd.Run(deps))

		got := outcomes()
		require.Len(t, got, 3)
		assert.Equal(t, "https://first.test/", got[0].URL)
		assert.Equal(t, "https://docs.test/a", got[1].URL)
		assert.Equal(t, "https://docs.test/b", got[2].URL)
		require.NotNil(t, gotFilter)
		assert.Len(t, gotFilter.Include, 1)
	})

	t.Run("rejects an invalid include pattern", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newBatchDeps(urlParser())
		cmd := &main.BatchCmd{Sitemap: "https://docs.test/", Include: []string{"("}}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, pageparse.EINVALID, pageparse.ErrorCode(err))
		assert.Contains(t, stderr(), "invalid include pattern")
	})

	t.Run("fails without URLs", func(t *testing.T) {
		t.Parallel()

		deps, outcomes, stderr := newBatchDeps(urlParser())
		cmd := &main.BatchCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: no URLs given\n", stderr())
		assert.Nil(t, outcomes())
	})

	t.Run("saves successful pages to the output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps, _, _ := newBatchDeps(urlParser())
		cmd := &main.BatchCmd{
			URLs:   []string{"https://a.test/docs/ok", "https://b.test/down"},
			Format: "yaml",
			OutDir: dir,
		}

		require.NoError(t, cmd.Run(deps))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.test_docs_ok.yaml", entries[0].Name())

		data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Contains(t, string(data), "url: https://a.test/docs/ok\n")
	})
}
