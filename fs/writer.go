// Package fs saves parse results as JSON, YAML or CSV files.
package fs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/pageparse"
	"gopkg.in/yaml.v3"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", pageparse.Errorf(pageparse.EINVALID, "unsupported format %q", s)
}

// Envelope is the saved form of one parsed page.
type Envelope struct {
	URL       string           `json:"url" yaml:"url"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	Title     *string          `json:"title" yaml:"title"`
	Content   pageparse.Result `json:"content" yaml:"content"`
}

// Encode writes env to w in the given format. Nothing is written for an
// unsupported format.
func Encode(w io.Writer, format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		content, err := json.Marshal(env.Content)
		if err != nil {
			return err
		}
		title := ""
		if env.Title != nil {
			title = *env.Title
		}
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"url", "timestamp", "title", "content"})
		_ = cw.Write([]string{env.URL, env.Timestamp.Format(time.RFC3339), title, string(content)})
		cw.Flush()
		return cw.Error()
	}
	return pageparse.Errorf(pageparse.EINVALID, "unsupported format %q", format)
}

// Writer saves envelopes under a directory.
type Writer struct {
	dir string

	// Now stamps each envelope. Replaced in tests.
	Now func() time.Time
}

// NewWriter creates a Writer that saves files in dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, Now: time.Now}
}

// Save writes the result for pageURL to <dir>/<name>.<format> and returns the
// file path. The file is replaced atomically; on error no partial file is
// left behind.
func (w *Writer) Save(name string, format Format, pageURL string, result pageparse.Result) (string, error) {
	env := Envelope{
		URL:       pageURL,
		Timestamp: w.Now().UTC(),
		Title:     result.Title(),
		Content:   result,
	}
	if env.Content == nil {
		env.Content = pageparse.Result{}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, env); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, name+"."+string(format))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

// FileName derives a file name, without extension, from a page URL.
// Example: https://example.com/docs/api → example.com_docs_api
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pageparse.Errorf(pageparse.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", pageparse.Errorf(pageparse.EINVALID, "URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index"
	case strings.HasSuffix(path, "/"):
		path += "index"
	}

	name := u.Host + "_" + strings.ReplaceAll(path, "/", "_")
	return strings.Map(func(r rune) rune {
		if r == ':' || r == '\\' {
			return '_'
		}
		return r
	}, name), nil
}
