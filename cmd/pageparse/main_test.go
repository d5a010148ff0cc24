package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	main "github.com/fwojciec/pageparse/cmd/pageparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<html><head><title>Example</title></head>
<body>
<h1>Welcome</h1>
<p>Mail ann@acme.test</p>
<a href="/about">About</a>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the program once with no default config file.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	m := main.NewMain()
	m.ConfigPaths = nil
	m.Now = func() time.Time { return fixedNow }

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	err = m.Run(context.Background(), args, out, errOut)
	return out.String(), errOut.String(), err
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, "--help")

	require.NoError(t, err)
	for _, cmd := range []string{"parse", "batch", "search", "serve", "pages"} {
		assert.Contains(t, stdout, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	_, _, err := run(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Parse(t *testing.T) {
	t.Parallel()

	srv := newSite(t)

	stdout, _, err := run(t, "parse", srv.URL, "-C", "title,emails")

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"url": "`+srv.URL+`",
		"timestamp": "2026-01-02T03:04:05Z",
		"title": "Example",
		"content": {"title": "Example", "emails": ["ann@acme.test"]}
	}`, stdout)
}

func TestMain_Run_Search(t *testing.T) {
	t.Parallel()

	srv := newSite(t)

	stdout, _, err := run(t, "search", srv.URL, "acme", "--context", "4")

	require.NoError(t, err)
	assert.Equal(t, "ann@acme.tes\n", stdout)
}

func TestMain_Run_SearchZeroContext(t *testing.T) {
	t.Parallel()

	srv := newSite(t)

	stdout, _, err := run(t, "search", srv.URL, "acme", "--context", "0")

	require.NoError(t, err)
	assert.Equal(t, "acme\n", stdout)
}

func TestMain_Run_InvalidProxy(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "--proxy-host", "proxy.local", "--proxy-port", "0", "parse", "https://example.com")

	require.Error(t, err)
	assert.Contains(t, stderr, "proxy port 0 out of range")
}

func TestMain_Run_StoresAndListsPages(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dbPath := filepath.Join(t.TempDir(), "pages.db")

	_, _, err := run(t, "--db", dbPath, "batch", srv.URL+"/a", srv.URL+"/b")
	require.NoError(t, err)

	stdout, _, err := run(t, "--db", dbPath, "pages")
	require.NoError(t, err)
	assert.Contains(t, stdout, srv.URL+"/a  Example")
	assert.Contains(t, stdout, srv.URL+"/b  Example")

	stdout, _, err = run(t, "--db", dbPath, "pages", srv.URL+"/a")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"title":"Example"`)
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	path := filepath.Join(t.TempDir(), "pageparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\ncategories: [title]\n"), 0644))

	stdout, _, err := run(t, "--config", path, "parse", srv.URL)

	require.NoError(t, err)
	assert.Contains(t, stdout, "url: "+srv.URL+"\n")
	assert.Contains(t, stdout, "title: Example\n")
	assert.NotContains(t, stdout, "links")
}
