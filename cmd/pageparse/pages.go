package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/pageparse"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	if deps.Pages == nil {
		err := pageparse.Errorf(pageparse.EINVALID, "no database configured; set --db or PAGEPARSE_DB")
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	if c.URL != "" {
		page, err := deps.Pages.FindPageByURL(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, page.Content)
		return nil
	}

	pages, err := deps.Pages.FindPages(deps.Ctx, pageparse.PageFilter{Limit: c.Limit, Offset: c.Offset})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages stored. Use 'pageparse parse --db PATH' to store one.")
		return nil
	}

	for _, p := range pages {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.ParsedAt.Format(time.DateTime), p.URL, p.Title)
	}

	return nil
}
