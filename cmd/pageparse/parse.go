package main

import (
	"fmt"

	"github.com/fwojciec/pageparse"
	"github.com/fwojciec/pageparse/fs"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	format, err := fs.ParseFormat(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}
	opts, err := c.Extract.Options()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	target := pageparse.NewFetchTarget(c.URL, deps.Proxy)
	result, err := deps.Parser.Parse(deps.Ctx, target, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	if deps.Pages != nil {
		page, err := pageparse.NewPage(pageparse.Success(target.URL, result))
		if err == nil {
			err = deps.Pages.UpsertPage(deps.Ctx, page)
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: result not stored: %s\n", pageparse.ErrorMessage(err))
		}
	}

	if c.Out != "" {
		w := fs.NewWriter(c.OutDir)
		w.Now = deps.Now
		path, err := w.Save(c.Out, format, target.URL, result)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %s\n", path)
		return nil
	}

	return fs.Encode(deps.Stdout, format, fs.Envelope{
		URL:       target.URL,
		Timestamp: deps.Now().UTC(),
		Title:     result.Title(),
		Content:   result,
	})
}
