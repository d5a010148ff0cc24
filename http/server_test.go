package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/pageparse"
	pphttp "github.com/fwojciec/pageparse/http"
	"github.com/fwojciec/pageparse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestAPIServer(parser pageparse.Parser) *pphttp.Server {
	s := pphttp.NewServer()
	s.Parser = parser
	s.Categories = pageparse.DefaultCategories
	s.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestServer_Parse(t *testing.T) {
	t.Parallel()

	t.Run("returns success with extracted data", func(t *testing.T) {
		t.Parallel()

		var gotTarget pageparse.FetchTarget
		var gotOpts pageparse.ParseOptions
		s := newTestAPIServer(&mock.Parser{
			ParseFn: func(_ context.Context, target pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error) {
				gotTarget = target
				gotOpts = opts
				return pageparse.Result{pageparse.CategoryTitle: pageparse.Title{Text: strPtr("Example")}}, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"url": "https://example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status": "success", "data": {"title": "Example"}}`, rec.Body.String())
		assert.Equal(t, "https://example.com", gotTarget.URL)
		assert.Equal(t, pageparse.DefaultCategories, gotOpts.Categories)
	})

	t.Run("accepts form-encoded url and categories", func(t *testing.T) {
		t.Parallel()

		var gotOpts pageparse.ParseOptions
		s := newTestAPIServer(&mock.Parser{
			ParseFn: func(_ context.Context, _ pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error) {
				gotOpts = opts
				return pageparse.Result{pageparse.CategoryEmails: pageparse.EmailList{}}, nil
			},
		})

		form := url.Values{"url": {"https://example.com"}, "categories": {"emails"}}
		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "success", "data": {"emails": []}}`, rec.Body.String())
		assert.Equal(t, []pageparse.Category{pageparse.CategoryEmails}, gotOpts.Categories)
	})

	t.Run("context size defaults, accepts zero and reads form values", func(t *testing.T) {
		t.Parallel()

		for _, tc := range []struct {
			name        string
			contentType string
			body        string
			want        int
		}{
			{"json omitted", "application/json", `{"url": "https://example.com"}`, pageparse.DefaultContextSize},
			{"json zero", "application/json", `{"url": "https://example.com", "context_size": 0}`, 0},
			{"form omitted", "application/x-www-form-urlencoded", "url=https%3A%2F%2Fexample.com", pageparse.DefaultContextSize},
			{"form value", "application/x-www-form-urlencoded", "url=https%3A%2F%2Fexample.com&context_size=7", 7},
			{"form zero", "application/x-www-form-urlencoded", "url=https%3A%2F%2Fexample.com&context_size=0", 0},
		} {
			var got pageparse.ParseOptions
			s := newTestAPIServer(&mock.Parser{
				ParseFn: func(_ context.Context, _ pageparse.FetchTarget, opts pageparse.ParseOptions) (pageparse.Result, error) {
					got = opts
					return pageparse.Result{}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, tc.name)
			assert.Equal(t, tc.want, got.ContextSize, tc.name)
		}
	})

	t.Run("rejects a non-numeric form context size", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{})

		form := url.Values{"url": {"https://example.com"}, "context_size": {"wide"}}
		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"status": "error", "message": "invalid context_size \"wide\""}`, rec.Body.String())
	})

	t.Run("rejects an oversized body", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{})

		body := `{"url": "https://example.com", "query": "` + strings.Repeat("x", pphttp.MaxRequestBodySize) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid JSON body")
	})

	t.Run("returns structured error when pipeline fails", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{
			ParseFn: func(context.Context, pageparse.FetchTarget, pageparse.ParseOptions) (pageparse.Result, error) {
				return nil, errors.New("HTTP 500 for https://example.com")
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"url": "https://example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"status": "error", "message": "HTTP 500 for https://example.com"}`, rec.Body.String())
	})

	t.Run("returns bad request without url", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{})

		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"status": "error", "message": "url required"}`, rec.Body.String())
	})

	t.Run("returns bad request for unknown category", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{})

		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"url": "https://example.com", "categories": ["videos"]}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"error"`)
	})

	t.Run("converts parser panic into error response", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{
			ParseFn: func(context.Context, pageparse.FetchTarget, pageparse.ParseOptions) (pageparse.Result, error) {
				panic("boom")
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"url": "https://example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status": "error", "message": "internal error"}`, rec.Body.String())
	})

	t.Run("rejects GET", func(t *testing.T) {
		t.Parallel()

		s := newTestAPIServer(&mock.Parser{})

		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parse", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := newTestAPIServer(&mock.Parser{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok", "timestamp": "2026-01-02T03:04:05Z"}`, rec.Body.String())
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := newTestAPIServer(&mock.Parser{})
	s.Addr = "127.0.0.1:0"
	require.NoError(t, s.Open())
	defer s.Close()

	resp, err := http.Get(s.URL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
