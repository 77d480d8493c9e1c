// Package census counts structural elements of a page body with a real HTML
// parser. The counts are an independent check on the converter: the
// converter never builds a tree, so a large difference between the two
// usually points at markup it could not follow.
package census

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/normalize"
)

// Counts are element totals found by the parser.
type Counts struct {
	Anchors   int `json:"anchors" yaml:"anchors"`
	Links     int `json:"links" yaml:"links"` // anchors with an href
	Images    int `json:"images" yaml:"images"`
	ListItems int `json:"list_items" yaml:"list_items"`
	Cells     int `json:"cells" yaml:"cells"`
	Headings  int `json:"headings" yaml:"headings"`
}

// selectors maps each count to the elements it covers.
var selectors = []struct {
	sel string
	dst func(*Counts) *int
}{
	{"a", func(c *Counts) *int { return &c.Anchors }},
	{"a[href]", func(c *Counts) *int { return &c.Links }},
	{"img[src]", func(c *Counts) *int { return &c.Images }},
	{"li", func(c *Counts) *int { return &c.ListItems }},
	{"td, th", func(c *Counts) *int { return &c.Cells }},
	{"h1, h2, h3, h4, h5, h6", func(c *Counts) *int { return &c.Headings }},
}

// Taker parses page bodies and counts their elements.
type Taker struct{}

// New creates a Taker.
func New() *Taker {
	return &Taker{}
}

// Take counts the elements of content after export escapes are decoded and
// script, style and comment blocks are removed, the same way the converter
// sees it.
func (t *Taker) Take(content string) (Counts, error) {
	content, _ = normalize.DecodeEscapes(content)
	content, _ = normalize.RemoveBlocks(content)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return Counts{}, fmt.Errorf("parsing HTML: %w", err)
	}
	var c Counts
	for _, s := range selectors {
		*s.dst(&c) = doc.Find(s.sel).Length()
	}
	return c, nil
}

// Compare checks c against the markup counts of a conversion and returns a
// census warning for every count that differs.
func Compare(c Counts, d core.Diagnostics) []core.Warning {
	var out []core.Warning
	check := func(name string, parsed, converted int) {
		if parsed != converted {
			out = append(out, core.Warning{
				Category: core.WarnCensusDrift,
				Detail:   fmt.Sprintf("%s parsed %d, converted %d", name, parsed, converted),
			})
		}
	}
	check("anchors", c.Anchors, d.AnchorsConverted)
	check("headings", c.Headings, d.HeadingsConverted)
	check("list items", c.ListItems, d.ListItemsConverted)
	check("table cells", c.Cells, d.TableCellsConverted)
	return out
}
