package goquery

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pageparse"
	"golang.org/x/net/html"
)

var (
	colorPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b|rgba?\([^)]+\)`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// ExtractStructuredData decodes every JSON-LD script block.
func ExtractStructuredData(doc *goquery.Document) pageparse.StructuredDataList {
	blocks := pageparse.StructuredDataList{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := dropMalformedJSONLD(s.Text()); ok {
			blocks = append(blocks, v)
		}
	})
	return blocks
}

// dropMalformedJSONLD decodes one JSON-LD block. Blocks that are not valid
// JSON are skipped without failing the pass.
func dropMalformedJSONLD(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

// ExtractMicrodata returns every itemscope element with its itemprop
// descendants.
func ExtractMicrodata(doc *goquery.Document) pageparse.MicrodataList {
	items := pageparse.MicrodataList{}
	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		item := pageparse.MicrodataItem{
			Type:       attr(s, "itemtype"),
			Properties: []pageparse.MicrodataProperty{},
		}
		s.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
			item.Properties = append(item.Properties, pageparse.MicrodataProperty{
				Name:    p.AttrOr("itemprop", ""),
				Content: strings.TrimSpace(p.Text()),
			})
		})
		items = append(items, item)
	})
	return items
}

// ExtractComments returns the text of every comment node in document
// order.
func ExtractComments(doc *goquery.Document) pageparse.CommentList {
	comments := pageparse.CommentList{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return comments
}

// ExtractColors scans inline style elements for hex, rgb() and rgba()
// colors, keeping the first occurrence of each.
func ExtractColors(doc *goquery.Document) pageparse.ColorList {
	var css strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		css.WriteString(s.Text())
		css.WriteByte('\n')
	})
	return pageparse.ColorList(uniqueMatches(colorPattern, css.String()))
}

// ExtractEmails scans the page text for email addresses, keeping the
// first occurrence of each.
func ExtractEmails(doc *goquery.Document) pageparse.EmailList {
	return pageparse.EmailList(uniqueMatches(emailPattern, doc.Text()))
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(text, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// DetectTechnologies checks the page against a fixed set of library
// signatures: script src, stylesheet href and page text substrings.
func DetectTechnologies(doc *goquery.Document) pageparse.TechnologyFlags {
	text := doc.Text()
	return pageparse.TechnologyFlags{
		JQuery:          hasSelector(doc, `script[src*="jquery"]`),
		Bootstrap:       hasSelector(doc, `link[href*="bootstrap"], script[src*="bootstrap"]`),
		GoogleAnalytics: strings.Contains(text, "ga(") || strings.Contains(text, "gtag"),
		React:           hasSelector(doc, `script[src*="react"]`) || strings.Contains(text, "React"),
		Vue:             hasSelector(doc, `script[src*="vue"]`) || strings.Contains(text, "Vue"),
	}
}

func hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// SearchWithContext returns every occurrence of query with up to size
// characters of surrounding text on each side. Occurrences may overlap
// ("aa" occurs three times in "aaaa") and each is reported on its own.
// Windows stop at line breaks.
func SearchWithContext(text, query string, size int) pageparse.ContextualMatchList {
	matches := pageparse.ContextualMatchList{}
	if query == "" {
		return matches
	}
	for pos := 0; pos <= len(text); {
		i := strings.Index(text[pos:], query)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(query)
		matches = append(matches, text[windowStart(text, start, size):windowEnd(text, end, size)])
		_, w := utf8.DecodeRuneInString(text[start:])
		pos = start + w
	}
	return matches
}

func windowStart(text string, i, size int) int {
	for n := 0; n < size && i > 0; n++ {
		r, w := utf8.DecodeLastRuneInString(text[:i])
		if r == '\n' {
			break
		}
		i -= w
	}
	return i
}

func windowEnd(text string, i, size int) int {
	for n := 0; n < size && i < len(text); n++ {
		r, w := utf8.DecodeRuneInString(text[i:])
		if r == '\n' {
			break
		}
		i += w
	}
	return i
}
