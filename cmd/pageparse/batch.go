package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/pageparse"
	"github.com/fwojciec/pageparse/crawl"
	"github.com/fwojciec/pageparse/fs"
)

// Run executes the batch command. The outcomes are printed to stdout as a
// JSON array in input order; progress goes to stderr. Failed URLs do not
// make the command fail.
func (c *BatchCmd) Run(deps *Dependencies) error {
	opts, err := c.Extract.Options()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	var fileFormat fs.Format
	if c.OutDir != "" {
		if fileFormat, err = fs.ParseFormat(c.Format); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
			return err
		}
	}

	urls := c.URLs
	if c.Sitemap != "" {
		filter, err := pageparse.NewURLFilter(c.Include, c.Exclude)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
			return err
		}
		discovered, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
			return err
		}
		urls = append(urls, discovered...)
	}
	if len(urls) == 0 {
		err := pageparse.Errorf(pageparse.EINVALID, "no URLs given")
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	deps.Batch.Options = opts
	if c.Concurrency > 0 {
		deps.Batch.Concurrency = c.Concurrency
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "Parsing %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %s\n", event.Completed, event.Total, event.URL, event.Error)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
		}
	}

	outcomes := deps.Batch.Run(deps.Ctx, crawl.URLs(urls, deps.Proxy), progress)

	if c.OutDir != "" {
		saveOutcomes(deps, c.OutDir, fileFormat, outcomes)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcomes)
}

func saveOutcomes(deps *Dependencies, dir string, format fs.Format, outcomes []pageparse.Outcome) {
	w := fs.NewWriter(dir)
	w.Now = deps.Now
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		name, err := fs.FileName(o.URL)
		if err == nil {
			_, err = w.Save(name, format, o.URL, o.Data)
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "  save %s: %s\n", o.URL, pageparse.ErrorMessage(err))
		}
	}
}
