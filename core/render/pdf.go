// Package render - PDF renderer.
// Lays converted content out as a review PDF using gofpdf. Markdown content
// gets headings, code blocks, lists and pipe tables styled; plain text is
// printed line by line.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/pagescrub/core"
)

// PDFRenderer renders converted content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var numberedItemRegex = regexp.MustCompile(`^\d+\.\s`)

// Render lays content out on A4 pages.
func (r *PDFRenderer) Render(content string, page core.Page) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if page.Row.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(page.Row.Title), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr(pageLine(page.Row)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	markdown := page.Syntax == core.SyntaxMarkdown
	inCodeBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if markdown && strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}
		if inCodeBlock || markdown && strings.HasPrefix(trimmed, "|") {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		if trimmed == "" {
			pdf.Ln(3)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#") && headingRegex.MatchString(trimmed):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if markdown {
				text = cleanInlineMarkdown(text)
			}
			renderHeading(pdf, tr(text), level)
		case strings.HasPrefix(trimmed, "- "):
			text := strings.TrimSpace(trimmed[2:])
			if markdown {
				text = cleanInlineMarkdown(text)
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("\u2022 "+text), "", "L", false)
		case numberedItemRegex.MatchString(trimmed):
			text := trimmed
			if markdown {
				text = cleanInlineMarkdown(text)
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
		default:
			text := line
			if markdown {
				text = cleanInlineMarkdown(text)
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func pageLine(row core.Row) string {
	parts := []string{"Page " + row.ID}
	if row.Status != "" {
		parts = append(parts, row.Status)
	}
	if row.Date != "" {
		parts = append(parts, row.Date)
	}
	return strings.Join(parts, " | ")
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

var (
	italicRegex    = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	mdLinkRegex    = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	escapedPipeRep = strings.NewReplacer(`\|`, "|")
)

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
// Links keep their target in parentheses, as in the text output.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = mdLinkRegex.ReplaceAllString(text, "$1 ($2)")
	text = escapedPipeRep.Replace(text)
	return strings.TrimSpace(text)
}
