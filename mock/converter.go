package mock

import "github.com/fwojciec/pageparse"

var _ pageparse.Converter = (*Converter)(nil)

// Converter is a mock implementation of pageparse.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
