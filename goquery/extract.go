package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pageparse"
)

// extract runs the pass for one category. A panic inside a pass is
// reported as an internal error naming the category.
func (p *Parser) extract(doc *goquery.Document, c pageparse.Category, opts pageparse.ParseOptions) (rec pageparse.Record, err error) {
	defer func() {
		if v := recover(); v != nil {
			rec, err = nil, pageparse.Errorf(pageparse.EINTERNAL, "extract %s: %v", c, v)
		}
	}()

	switch c {
	case pageparse.CategoryTitle:
		return ExtractTitle(doc), nil
	case pageparse.CategoryLinks:
		return ExtractLinks(doc.Selection), nil
	case pageparse.CategoryHeadings:
		return ExtractHeadings(doc), nil
	case pageparse.CategoryImages:
		return ExtractImages(doc.Selection), nil
	case pageparse.CategoryTables:
		return ExtractTables(doc), nil
	case pageparse.CategoryLists:
		return ExtractLists(doc), nil
	case pageparse.CategoryForms:
		return ExtractForms(doc), nil
	case pageparse.CategoryMeta:
		return ExtractMeta(doc), nil
	case pageparse.CategoryScripts:
		return ExtractScripts(doc), nil
	case pageparse.CategoryStyles:
		return ExtractStyles(doc), nil
	case pageparse.CategoryStructuredData:
		return ExtractStructuredData(doc), nil
	case pageparse.CategoryMicrodata:
		return ExtractMicrodata(doc), nil
	case pageparse.CategoryComments:
		return ExtractComments(doc), nil
	case pageparse.CategoryIframes:
		return ExtractIframes(doc), nil
	case pageparse.CategoryColors:
		return ExtractColors(doc), nil
	case pageparse.CategoryEmails:
		return ExtractEmails(doc), nil
	case pageparse.CategoryTechnologies:
		return DetectTechnologies(doc), nil
	case pageparse.CategorySearch:
		return SearchWithContext(doc.Text(), opts.Query, opts.ContextSize), nil
	case pageparse.CategorySelect:
		return Select(doc, opts.Selector), nil
	case pageparse.CategoryBlock:
		return ExtractBlock(doc, opts.Block), nil
	case pageparse.CategoryMarkdown:
		return p.markdown(doc)
	}
	return nil, pageparse.Errorf(pageparse.EINVALID, "unknown category %q", c)
}

func (p *Parser) markdown(doc *goquery.Document) (pageparse.Record, error) {
	if p.Converter == nil {
		return nil, pageparse.Errorf(pageparse.EINTERNAL, "extract markdown: no converter configured")
	}
	body := doc.Find("body")
	if body.Length() == 0 || body.Children().Length() == 0 && isBlank(body.Text()) {
		return pageparse.Markdown(""), nil
	}
	html, err := goquery.OuterHtml(body)
	if err != nil {
		return nil, pageparse.Errorf(pageparse.EINTERNAL, "extract markdown: %v", err)
	}
	md, err := p.Converter.Convert(html)
	if err != nil {
		return nil, pageparse.Errorf(pageparse.EINTERNAL, "extract markdown: %v", err)
	}
	return pageparse.Markdown(md), nil
}
