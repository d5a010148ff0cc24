package main

import (
	"fmt"

	"github.com/fwojciec/pageparse"
	pphttp "github.com/fwojciec/pageparse/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cats, err := pageparse.ParseCategories(c.Categories)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pageparse.ErrorMessage(err))
		return err
	}

	s := pphttp.NewServer()
	s.Addr = c.Addr
	s.Parser = deps.Parser
	s.Proxy = deps.Proxy
	if deps.Logger != nil {
		s.Logger = deps.Logger
	}
	if len(cats) > 0 {
		s.Categories = cats
	}

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()

	return s.Close()
}
