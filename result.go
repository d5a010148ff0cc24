package pageparse

import "context"

// Result maps each requested category to its record.
// Encoders sort map keys, so equal results always encode identically.
type Result map[Category]Record

// Title returns the page title if the title category was extracted.
func (r Result) Title() *string {
	if t, ok := r[CategoryTitle].(Title); ok {
		return t.Text
	}
	return nil
}

// Status tags an Outcome.
type Status string

// Status constants.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Outcome is the per-URL result of a batch. Exactly one of Data and Error
// is meaningful, selected by Status. Build outcomes with Success or Failure.
type Outcome struct {
	URL    string `json:"url" yaml:"url"`
	Data   Result `json:"data,omitempty" yaml:"data,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
	Status Status `json:"status" yaml:"status"`
}

// Success returns a successful outcome carrying result.
func Success(url string, result Result) Outcome {
	if result == nil {
		result = Result{}
	}
	return Outcome{URL: url, Data: result, Status: StatusSuccess}
}

// Failure returns a failed outcome. The reason is the error message only;
// callers cannot tell a fetch failure from an extraction failure.
func Failure(url string, err error) Outcome {
	msg := ErrorMessage(err)
	if msg == "" {
		msg = "unknown error"
	}
	return Outcome{URL: url, Error: msg, Status: StatusError}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// DefaultContextSize is the number of characters kept on each side of a
// search match when a caller does not choose one. Callers apply it; a zero
// ParseOptions.ContextSize means the bare match.
const DefaultContextSize = 50

// ParseOptions selects what a Parser extracts.
type ParseOptions struct {
	// Categories to extract. Empty means DefaultCategories.
	Categories []Category

	// Query and ContextSize drive CategorySearch.
	Query       string
	ContextSize int

	// Selector drives CategorySelect.
	Selector string

	// Block drives CategoryBlock.
	Block string
}

// Validate returns an error if a requested category lacks its input.
func (o ParseOptions) Validate() error {
	for _, c := range o.Categories {
		if !knownCategories[c] {
			return Errorf(EINVALID, "unknown category %q", c)
		}
		switch {
		case c == CategorySearch && o.Query == "":
			return Errorf(EINVALID, "search category requires a query")
		case c == CategorySelect && o.Selector == "":
			return Errorf(EINVALID, "select category requires a selector")
		case c == CategoryBlock && o.Block == "":
			return Errorf(EINVALID, "block category requires a selector")
		}
	}
	if o.ContextSize < 0 {
		return Errorf(EINVALID, "context size must not be negative")
	}
	return nil
}

// Parser runs the single-URL pipeline: fetch one target and extract the
// requested categories from it.
type Parser interface {
	// Parse fetches the target at most once and runs every requested
	// extraction pass against the same parsed document.
	// Fetch failures and failures inside a pass are returned as errors.
	Parse(ctx context.Context, target FetchTarget, opts ParseOptions) (Result, error)
}
