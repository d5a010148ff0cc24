package pageparse

import "strings"

// Category names one kind of extracted data. The set is closed; every
// category maps to exactly one Record type.
type Category string

// Category constants.
const (
	CategoryTitle          Category = "title"
	CategoryLinks          Category = "links"
	CategoryHeadings       Category = "headings"
	CategoryImages         Category = "images"
	CategoryTables         Category = "tables"
	CategoryLists          Category = "lists"
	CategoryForms          Category = "forms"
	CategoryMeta           Category = "meta"
	CategoryScripts        Category = "scripts"
	CategoryStyles         Category = "styles"
	CategoryStructuredData Category = "structured_data"
	CategoryMicrodata      Category = "microdata"
	CategoryComments       Category = "comments"
	CategoryIframes        Category = "iframes"
	CategoryColors         Category = "colors"
	CategoryEmails         Category = "emails"
	CategoryTechnologies   Category = "technologies"
	CategorySearch         Category = "search"
	CategorySelect         Category = "select"
	CategoryBlock          Category = "block"
	CategoryMarkdown       Category = "markdown"
)

// DefaultCategories is what a parse returns when no categories are requested.
var DefaultCategories = []Category{CategoryTitle, CategoryLinks, CategoryHeadings}

// AllCategories lists the categories computed from the document alone.
// Search, select and block also need a query or selector and are excluded.
var AllCategories = []Category{
	CategoryTitle,
	CategoryLinks,
	CategoryHeadings,
	CategoryImages,
	CategoryTables,
	CategoryLists,
	CategoryForms,
	CategoryMeta,
	CategoryScripts,
	CategoryStyles,
	CategoryStructuredData,
	CategoryMicrodata,
	CategoryComments,
	CategoryIframes,
	CategoryColors,
	CategoryEmails,
	CategoryTechnologies,
	CategoryMarkdown,
}

var knownCategories = func() map[Category]bool {
	m := make(map[Category]bool)
	for _, c := range AllCategories {
		m[c] = true
	}
	m[CategorySearch] = true
	m[CategorySelect] = true
	m[CategoryBlock] = true
	return m
}()

// ParseCategory converts a name such as "links" or "Structured_Data" to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !knownCategories[c] {
		return "", Errorf(EINVALID, "unknown category %q", s)
	}
	return c, nil
}

// ParseCategories converts names to categories. The special name "all"
// expands to AllCategories. Duplicates are dropped, first occurrence wins.
func ParseCategories(names []string) ([]Category, error) {
	var out []Category
	seen := make(map[Category]bool)
	add := func(c Category) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for _, c := range AllCategories {
				add(c)
			}
			continue
		}
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		add(c)
	}
	return out, nil
}
