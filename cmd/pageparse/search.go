package main

import (
	"fmt"

	"github.com/fwojciec/pageparse"
)

// Run executes the search command, printing one match per line.
func (c *SearchCmd) Run(deps *Dependencies) error {
	opts := pageparse.ParseOptions{
		Categories:  []pageparse.Category{pageparse.CategorySearch},
		Query:       c.Query,
		ContextSize: c.ContextSize,
	}
	result, err := deps.Parser.Parse(deps.Ctx, pageparse.NewFetchTarget(c.URL, deps.Proxy), opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	matches, _ := result[pageparse.CategorySearch].(pageparse.ContextualMatchList)
	if len(matches) == 0 {
		fmt.Fprintf(deps.Stderr, "No matches for %q\n", c.Query)
		return nil
	}
	for _, m := range matches {
		fmt.Fprintln(deps.Stdout, m)
	}
	return nil
}
