package http

import (
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// decodeBestEffort converts body to UTF-8. An encoding announced by a byte
// order mark or the Content-Type header is always applied. Otherwise the
// body is kept as is when it is already valid UTF-8, so an undeclared page
// is never reinterpreted from a guess made on its first kilobyte; invalid
// bytes fall back to the <meta> declaration or the windows-1252 default.
// Bodies that fail to convert are returned unchanged.
func decodeBestEffort(body []byte, contentType string) []byte {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if enc == nil || name == "utf-8" {
		return body
	}
	if !certain && utf8.Valid(body) {
		return body
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return body
	}
	return out
}
