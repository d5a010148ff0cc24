package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pageparse"
	"github.com/fwojciec/pageparse/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Parser   pageparse.Parser
	Sitemaps pageparse.SitemapService
	Pages    pageparse.PageService
	Batch    *crawl.Batch
	Proxy    *pageparse.ProxyConfig

	// Now stamps saved and printed results.
	Now func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"YAML config file" placeholder:"FILE"`
	Verbose bool            `short:"v" env:"PAGEPARSE_VERBOSE" help:"Enable debug logging"`
	DB      string          `name:"db" env:"PAGEPARSE_DB" placeholder:"PATH" help:"SQLite database to store results in (disabled when empty)"`

	Proxy ProxyFlags `embed:"" prefix:"proxy-"`
	Fetch FetchFlags `embed:""`

	Parse  ParseCmd  `cmd:"" help:"Parse a single URL"`
	Batch  BatchCmd  `cmd:"" help:"Parse many URLs concurrently"`
	Search SearchCmd `cmd:"" help:"Find a phrase in a page and show its context"`
	Serve  ServeCmd  `cmd:"" help:"Run the parsing API server"`
	Pages  PagesCmd  `cmd:"" help:"List pages stored in the database"`
}

// ProxyFlags configure the proxy used for every fetch.
type ProxyFlags struct {
	Host     string `env:"PAGEPARSE_PROXY_HOST" help:"Proxy host"`
	Port     int    `env:"PAGEPARSE_PROXY_PORT" help:"Proxy port"`
	User     string `env:"PAGEPARSE_PROXY_USER" help:"Proxy user"`
	Password string `env:"PAGEPARSE_PROXY_PASSWORD" help:"Proxy password"`
}

// Config returns the proxy configuration, or nil when no host is set.
func (f ProxyFlags) Config() (*pageparse.ProxyConfig, error) {
	if f.Host == "" {
		return nil, nil
	}
	p := &pageparse.ProxyConfig{Host: f.Host, Port: f.Port, User: f.User, Password: f.Password}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FetchFlags tune the HTTP fetcher.
type FetchFlags struct {
	Timeout   time.Duration `default:"10s" env:"PAGEPARSE_TIMEOUT" help:"Per-request timeout"`
	UserAgent string        `name:"user-agent" env:"PAGEPARSE_USER_AGENT" help:"User-Agent header sent with every request"`
	Retries   int           `default:"2" env:"PAGEPARSE_RETRIES" help:"Retries for transient fetch failures"`
	Rate      float64       `default:"0" env:"PAGEPARSE_RATE" help:"Requests per second per domain (0 disables limiting)"`
}

// ExtractFlags select what is extracted from each page.
type ExtractFlags struct {
	Categories  []string `short:"C" sep:"," help:"Categories to extract, or 'all' (default: title,links,headings)"`
	Query       string   `short:"q" help:"Phrase for the search category"`
	ContextSize int      `name:"context" default:"50" help:"Characters of context around search matches"`
	Selector    string   `short:"s" help:"CSS selector for the select category"`
	Block       string   `short:"b" help:"CSS selector for the block category"`
}

// Options converts the flags to parse options.
func (f ExtractFlags) Options() (pageparse.ParseOptions, error) {
	cats, err := pageparse.ParseCategories(f.Categories)
	if err != nil {
		return pageparse.ParseOptions{}, err
	}
	opts := pageparse.ParseOptions{
		Categories:  cats,
		Query:       f.Query,
		ContextSize: f.ContextSize,
		Selector:    f.Selector,
		Block:       f.Block,
	}
	return opts, opts.Validate()
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	URL     string       `arg:"" help:"Page URL"`
	Extract ExtractFlags `embed:""`
	Format  string       `short:"f" default:"json" env:"PAGEPARSE_FORMAT" help:"Output format: json, yaml or csv"`
	Out     string       `short:"o" help:"Save to <out-dir>/<name>.<format> instead of printing"`
	OutDir  string       `name:"out-dir" default:"." help:"Directory for saved files"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs        []string     `arg:"" optional:"" help:"Page URLs"`
	Extract     ExtractFlags `embed:""`
	Concurrency int          `short:"c" default:"4" env:"PAGEPARSE_CONCURRENCY" help:"Concurrent pipeline limit"`
	Sitemap     string       `help:"Also parse every URL listed in this site's sitemap"`
	Include     []string     `help:"Keep sitemap URLs matching regex (repeatable)"`
	Exclude     []string     `help:"Drop sitemap URLs matching regex (repeatable)"`
	Format      string       `short:"f" default:"json" env:"PAGEPARSE_FORMAT" help:"File format for --out-dir: json, yaml or csv"`
	OutDir      string       `name:"out-dir" help:"Save each successful page to this directory"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	URL         string `arg:"" help:"Page URL"`
	Query       string `arg:"" help:"Phrase to find"`
	ContextSize int    `name:"context" default:"50" help:"Characters of context around each match"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr       string   `default:"127.0.0.1:4567" env:"PAGEPARSE_ADDR" help:"Listen address"`
	Categories []string `short:"C" sep:"," help:"Categories extracted when a request names none"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	URL    string `arg:"" optional:"" help:"Show the stored result for this URL"`
	Limit  int    `short:"n" default:"20" help:"Maximum pages to list"`
	Offset int    `help:"Pages to skip"`
}
