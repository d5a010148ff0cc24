package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pageparse"
	"github.com/fwojciec/pageparse/crawl"
	"github.com/fwojciec/pageparse/goquery"
	"github.com/fwojciec/pageparse/htmltomarkdown"
	pphttp "github.com/fwojciec/pageparse/http"
	ppslog "github.com/fwojciec/pageparse/slog"
	"github.com/fwojciec/pageparse/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config files read before flags are resolved. Missing files are skipped.
	ConfigPaths []string

	// SQLite database, opened only when a database path is configured.
	DB *sqlite.DB

	// Now stamps results. Replaced in tests.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{DefaultConfigPath},
		Now:         time.Now,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    m.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pageparse"),
		kong.Description("Fetch web pages and extract structured data from them."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAML, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pageparse --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if deps.Proxy, err = cli.Proxy.Config(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PAGEPARSE_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Pages = ppslog.NewLoggingPageService(sqlite.NewPageService(m.DB), deps.Logger)
	}

	fetcher := ppslog.NewLoggingFetcher(pphttp.NewFetcher(fetcherOptions(cli.Fetch)...), deps.Logger)
	deps.Parser = ppslog.NewLoggingParser(goquery.NewParser(fetcher, htmltomarkdown.NewConverter()), deps.Logger)
	deps.Sitemaps = ppslog.NewLoggingSitemapService(pphttp.NewSitemapService(fetcher, deps.Proxy), deps.Logger)
	deps.Batch = &crawl.Batch{
		Parser:      deps.Parser,
		Concurrency: cli.Batch.Concurrency,
		Pages:       deps.Pages,
		Logger:      deps.Logger,
	}

	return kongCtx.Run(deps)
}

func fetcherOptions(f FetchFlags) []pphttp.Option {
	opts := []pphttp.Option{
		pphttp.WithTimeout(f.Timeout),
		pphttp.WithRetryDelays(retryDelays(f.Retries)),
	}
	if f.UserAgent != "" {
		opts = append(opts, pphttp.WithUserAgent(f.UserAgent))
	}
	if f.Rate > 0 {
		opts = append(opts, pphttp.WithLimiter(crawl.NewDomainLimiter(f.Rate)))
	}
	return opts
}

// retryDelays doubles from one second: 1s, 2s, 4s, ...
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}
