// Package core defines the shared records and stage interfaces for PageScrub.
// Each stage of the conversion pipeline is a small, testable unit; this
// package holds only the types that cross stage boundaries.
package core

// Row is one exported page record. The core reads Content and treats the
// rest as opaque metadata used for reporting.
type Row struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"-" yaml:"-"`
	Status  string `json:"status" yaml:"status"`
	Date    string `json:"date" yaml:"date"`
}

// Output syntaxes and encodings carried by Page.
const (
	SyntaxText     = "text"
	SyntaxMarkdown = "markdown"

	EncodingASCII = "ascii"
	EncodingUTF8  = "utf-8"
)

// Page is a converted row on its way to a renderer.
type Page struct {
	Row Row
	// Syntax of the rendered content: SyntaxText or SyntaxMarkdown.
	Syntax string
	// Encoding the output must respect: EncodingASCII or EncodingUTF8.
	Encoding    string
	Diagnostics Diagnostics
}

// Renderer turns converted content (plain text or Markdown) into the bytes
// written to disk.
type Renderer interface {
	Render(content string, page Page) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// --- JSON output types ---

// PageJSON is the top-level JSON output structure.
type PageJSON struct {
	Metadata    Row           `json:"metadata"`
	Content     PageContent   `json:"content"`
	Structure   PageStructure `json:"structure"`
	Diagnostics Diagnostics   `json:"diagnostics"`
}

// PageContent holds the textual content in multiple forms.
type PageContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown,omitempty"`
	Sections []Section `json:"sections"`
}

// Section represents a heading and its associated content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// PageStructure counts and lists the structural elements of the page.
type PageStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	Images     []Link    `json:"images"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	Lists      int       `json:"lists"`
}

// Heading represents a single heading in the document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a link or image target in the document.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}
