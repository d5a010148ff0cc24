package pageparse

import "encoding/json"

// Record is one category of extracted data. The set of implementations is
// closed: only the types in this file satisfy it.
type Record interface {
	record()
}

// Title is the document title. Text is nil when the page has no <title>.
type Title struct {
	Text *string
}

func (Title) record() {}

// MarshalJSON encodes the title as a bare string or null.
func (t Title) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Text)
}

// MarshalYAML encodes the title as a bare string or null.
func (t Title) MarshalYAML() (any, error) {
	return t.Text, nil
}

// Link is an anchor element.
type Link struct {
	Text string  `json:"text" yaml:"text"`
	Href *string `json:"href" yaml:"href"`
}

// LinkList holds every anchor in document order.
type LinkList []Link

func (LinkList) record() {}

// Heading is an h1, h2 or h3 element.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// HeadingList holds headings in document order.
type HeadingList []Heading

func (HeadingList) record() {}

// Image is an img element.
type Image struct {
	Src   *string `json:"src" yaml:"src"`
	Alt   *string `json:"alt" yaml:"alt"`
	Title *string `json:"title" yaml:"title"`
}

// ImageList holds every img element.
type ImageList []Image

func (ImageList) record() {}

// Table splits a table into its first row and the remaining rows.
// Headers is nil for a table without rows; Data is never nil.
type Table struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Data    [][]string `json:"data" yaml:"data"`
}

// TableList holds every table element.
type TableList []Table

func (TableList) record() {}

// ListPair holds the item texts of unordered and ordered lists, one inner
// slice per list element.
type ListPair struct {
	Unordered [][]string `json:"unordered" yaml:"unordered"`
	Ordered   [][]string `json:"ordered" yaml:"ordered"`
}

func (ListPair) record() {}

// FormInput is an input element inside a form.
type FormInput struct {
	Type *string `json:"type" yaml:"type"`
	Name *string `json:"name" yaml:"name"`
	ID   *string `json:"id" yaml:"id"`
}

// Form is a form element with its inputs.
type Form struct {
	Action *string     `json:"action" yaml:"action"`
	Method *string     `json:"method" yaml:"method"`
	Inputs []FormInput `json:"inputs" yaml:"inputs"`
}

// FormList holds every form element.
type FormList []Form

func (FormList) record() {}

// Meta is a meta element.
type Meta struct {
	Name     *string `json:"name" yaml:"name"`
	Property *string `json:"property" yaml:"property"`
	Content  *string `json:"content" yaml:"content"`
}

// MetaList holds every meta element.
type MetaList []Meta

func (MetaList) record() {}

// Script is a script element.
type Script struct {
	Type    *string `json:"type" yaml:"type"`
	Src     *string `json:"src" yaml:"src"`
	Content string  `json:"content" yaml:"content"`
}

// ScriptList holds every script element.
type ScriptList []Script

func (ScriptList) record() {}

// Style is a stylesheet link or an inline style element.
// Type is the element name, "link" or "style".
type Style struct {
	Type    string  `json:"type" yaml:"type"`
	Href    *string `json:"href" yaml:"href"`
	Content string  `json:"content" yaml:"content"`
}

// StyleList holds styles in document order.
type StyleList []Style

func (StyleList) record() {}

// StructuredDataList holds the decoded JSON-LD blocks that parsed cleanly.
type StructuredDataList []any

func (StructuredDataList) record() {}

// MicrodataProperty is an itemprop element inside an item.
type MicrodataProperty struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// MicrodataItem is an itemscope element.
type MicrodataItem struct {
	Type       *string             `json:"type" yaml:"type"`
	Properties []MicrodataProperty `json:"properties" yaml:"properties"`
}

// MicrodataList holds every itemscope element.
type MicrodataList []MicrodataItem

func (MicrodataList) record() {}

// CommentList holds the text of HTML comments.
type CommentList []string

func (CommentList) record() {}

// Iframe is an iframe element.
type Iframe struct {
	Src    *string `json:"src" yaml:"src"`
	Width  *string `json:"width" yaml:"width"`
	Height *string `json:"height" yaml:"height"`
	Title  *string `json:"title" yaml:"title"`
}

// IframeList holds every iframe element.
type IframeList []Iframe

func (IframeList) record() {}

// ColorList holds distinct color tokens found in inline styles.
type ColorList []string

func (ColorList) record() {}

// EmailList holds distinct email addresses in first-occurrence order.
type EmailList []string

func (EmailList) record() {}

// TechnologyFlags reports which known libraries a page uses.
type TechnologyFlags struct {
	JQuery          bool `json:"jquery" yaml:"jquery"`
	Bootstrap       bool `json:"bootstrap" yaml:"bootstrap"`
	GoogleAnalytics bool `json:"google_analytics" yaml:"google_analytics"`
	React           bool `json:"react" yaml:"react"`
	Vue             bool `json:"vue" yaml:"vue"`
}

func (TechnologyFlags) record() {}

// ContextualMatchList holds each query match with its surrounding text.
type ContextualMatchList []string

func (ContextualMatchList) record() {}

// SelectionList holds the texts of elements matching a CSS selector.
type SelectionList []string

func (SelectionList) record() {}

// Block is the content of the first element matching a selector.
// A nil *Block means nothing matched.
type Block struct {
	Text   string    `json:"text" yaml:"text"`
	Links  LinkList  `json:"links" yaml:"links"`
	Images ImageList `json:"images" yaml:"images"`
}

func (*Block) record() {}

// Markdown is the page body rendered as Markdown.
type Markdown string

func (Markdown) record() {}
