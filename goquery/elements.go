package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pageparse"
)

// ExtractTitle returns the text of the first <title> element.
func ExtractTitle(doc *goquery.Document) pageparse.Title {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return pageparse.Title{}
	}
	text := strings.TrimSpace(sel.Text())
	return pageparse.Title{Text: &text}
}

// ExtractLinks returns every anchor under sel.
func ExtractLinks(sel *goquery.Selection) pageparse.LinkList {
	links := pageparse.LinkList{}
	sel.Find("a").Each(func(_ int, s *goquery.Selection) {
		links = append(links, pageparse.Link{
			Text: strings.TrimSpace(s.Text()),
			Href: attr(s, "href"),
		})
	})
	return links
}

// ExtractHeadings returns h1, h2 and h3 elements in document order.
func ExtractHeadings(doc *goquery.Document) pageparse.HeadingList {
	headings := pageparse.HeadingList{}
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, pageparse.Heading{
			Level: int(goquery.NodeName(s)[1] - '0'),
			Text:  strings.TrimSpace(s.Text()),
		})
	})
	return headings
}

// ExtractImages returns every img element under sel.
func ExtractImages(sel *goquery.Selection) pageparse.ImageList {
	images := pageparse.ImageList{}
	sel.Find("img").Each(func(_ int, s *goquery.Selection) {
		images = append(images, pageparse.Image{
			Src:   attr(s, "src"),
			Alt:   attr(s, "alt"),
			Title: attr(s, "title"),
		})
	})
	return images
}

// ExtractTables splits every table into its first row and the rest.
// Cells are td and th elements of each tr, trimmed.
func ExtractTables(doc *goquery.Document) pageparse.TableList {
	tables := pageparse.TableList{}
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		var rows [][]string
		t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(td.Text()))
			})
			rows = append(rows, cells)
		})

		table := pageparse.Table{Data: [][]string{}}
		if len(rows) > 0 {
			table.Headers = rows[0]
			table.Data = append(table.Data, rows[1:]...)
		}
		tables = append(tables, table)
	})
	return tables
}

// ExtractLists returns the item texts of every ul and ol. Only direct li
// children belong to a list; nested lists are reported on their own.
func ExtractLists(doc *goquery.Document) pageparse.ListPair {
	return pageparse.ListPair{
		Unordered: listItems(doc, "ul"),
		Ordered:   listItems(doc, "ol"),
	}
}

func listItems(doc *goquery.Document, tag string) [][]string {
	lists := [][]string{}
	doc.Find(tag).Each(func(_ int, list *goquery.Selection) {
		items := []string{}
		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			items = append(items, strings.TrimSpace(li.Text()))
		})
		lists = append(lists, items)
	})
	return lists
}

// ExtractForms returns every form with its input elements.
func ExtractForms(doc *goquery.Document) pageparse.FormList {
	forms := pageparse.FormList{}
	doc.Find("form").Each(func(_ int, f *goquery.Selection) {
		form := pageparse.Form{
			Action: attr(f, "action"),
			Method: attr(f, "method"),
			Inputs: []pageparse.FormInput{},
		}
		f.Find("input").Each(func(_ int, in *goquery.Selection) {
			form.Inputs = append(form.Inputs, pageparse.FormInput{
				Type: attr(in, "type"),
				Name: attr(in, "name"),
				ID:   attr(in, "id"),
			})
		})
		forms = append(forms, form)
	})
	return forms
}

// ExtractMeta returns every meta element.
func ExtractMeta(doc *goquery.Document) pageparse.MetaList {
	metas := pageparse.MetaList{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		metas = append(metas, pageparse.Meta{
			Name:     attr(s, "name"),
			Property: attr(s, "property"),
			Content:  attr(s, "content"),
		})
	})
	return metas
}

// ExtractScripts returns every script element with its inline content.
func ExtractScripts(doc *goquery.Document) pageparse.ScriptList {
	scripts := pageparse.ScriptList{}
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts = append(scripts, pageparse.Script{
			Type:    attr(s, "type"),
			Src:     attr(s, "src"),
			Content: s.Text(),
		})
	})
	return scripts
}

// ExtractStyles returns stylesheet links and style elements in document
// order.
func ExtractStyles(doc *goquery.Document) pageparse.StyleList {
	styles := pageparse.StyleList{}
	doc.Find(`link[rel="stylesheet"], style`).Each(func(_ int, s *goquery.Selection) {
		styles = append(styles, pageparse.Style{
			Type:    goquery.NodeName(s),
			Href:    attr(s, "href"),
			Content: s.Text(),
		})
	})
	return styles
}

// ExtractIframes returns every iframe element.
func ExtractIframes(doc *goquery.Document) pageparse.IframeList {
	iframes := pageparse.IframeList{}
	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		iframes = append(iframes, pageparse.Iframe{
			Src:    attr(s, "src"),
			Width:  attr(s, "width"),
			Height: attr(s, "height"),
			Title:  attr(s, "title"),
		})
	})
	return iframes
}

// Select returns the trimmed text of every element matching selector.
func Select(doc *goquery.Document, selector string) pageparse.SelectionList {
	texts := pageparse.SelectionList{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// ExtractBlock returns the first element matching selector with its links
// and images, or nil when nothing matches.
func ExtractBlock(doc *goquery.Document, selector string) *pageparse.Block {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return &pageparse.Block{
		Text:   strings.Join(strings.Fields(sel.Text()), " "),
		Links:  ExtractLinks(sel),
		Images: ExtractImages(sel),
	}
}

// attr returns a pointer to the attribute value, or nil when the
// attribute is missing.
func attr(s *goquery.Selection, name string) *string {
	v, ok := s.Attr(name)
	if !ok {
		return nil
	}
	return &v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
