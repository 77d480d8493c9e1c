// Package render - JSON renderer.
// Builds the structured JSON output from converted content, row metadata and
// the conversion diagnostics. Markdown content is parsed for structural
// information (headings, links, images, code blocks, tables, lists).
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/pagescrub/core"
)

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render builds the JSON document for page. Plain text content only fills
// content.text; Markdown content also yields sections and structure.
func (r *JSONRenderer) Render(content string, page core.Page) ([]byte, error) {
	out := core.PageJSON{
		Metadata:    page.Row,
		Diagnostics: page.Diagnostics,
		Structure: core.PageStructure{
			Headings: []core.Heading{},
			Links:    []core.Link{},
			Images:   []core.Link{},
		},
	}

	if page.Syntax != core.SyntaxMarkdown {
		out.Content = core.PageContent{Text: content, Sections: []core.Section{}}
	} else {
		headings := extractHeadings(content)
		links, images := extractLinks(content)
		out.Content = core.PageContent{
			Text:     stripMarkdown(content),
			Markdown: content,
			Sections: buildSections(content, headings),
		}
		out.Structure = core.PageStructure{
			Headings:   headings,
			Links:      links,
			Images:     images,
			CodeBlocks: countCodeBlocks(content),
			Tables:     countTables(content),
			Lists:      countLists(content),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return Encode(string(data), page.Encoding), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// --- Markdown parsing helpers ---

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []core.Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]core.Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, core.Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}

// linkRegex matches [text](url) and [text](url "title"); a leading '!'
// makes it an image.
var linkRegex = regexp.MustCompile(`(!?)\[([^\]]*)\]\((\S+?)(?:\s+"(?:[^"\\]|\\.)*")?\)`)

func extractLinks(md string) (links, images []core.Link) {
	links, images = []core.Link{}, []core.Link{}
	for _, m := range linkRegex.FindAllStringSubmatch(md, -1) {
		l := core.Link{Text: m[2], Href: m[3]}
		if m[1] == "!" {
			images = append(images, l)
			continue
		}
		links = append(links, l)
	}
	return links, images
}

func buildSections(md string, headings []core.Heading) []core.Section {
	sections := make([]core.Section, 0, len(headings))
	if len(headings) == 0 {
		return sections
	}

	headingIdx := 0
	var currentSection *core.Section
	var sectionLines []string

	for _, line := range strings.Split(md, "\n") {
		if headingRegex.MatchString(line) && headingIdx < len(headings) {
			if currentSection != nil {
				currentSection.Text = strings.TrimSpace(strings.Join(sectionLines, "\n"))
				sections = append(sections, *currentSection)
			}
			currentSection = &core.Section{
				Heading: headings[headingIdx].Text,
				Level:   headings[headingIdx].Level,
			}
			sectionLines = nil
			headingIdx++
		} else if currentSection != nil {
			sectionLines = append(sectionLines, line)
		}
	}
	if currentSection != nil {
		currentSection.Text = strings.TrimSpace(strings.Join(sectionLines, "\n"))
		sections = append(sections, *currentSection)
	}
	return sections
}

var fenceRegex = regexp.MustCompile("(?m)^\\s*```")

// countCodeBlocks counts fenced code blocks.
func countCodeBlocks(md string) int {
	return len(fenceRegex.FindAllString(md, -1)) / 2
}

// countTables counts runs of consecutive pipe rows.
func countTables(md string) int {
	n := 0
	inTable := false
	for _, line := range strings.Split(md, "\n") {
		row := strings.HasPrefix(strings.TrimSpace(line), "|")
		if row && !inTable {
			n++
		}
		inTable = row
	}
	return n
}

// countLists counts list items (lines starting with -, * or N.).
var listItemRegex = regexp.MustCompile(`(?m)^[ \t]*(?:[-*]|\d+\.)[ \t]`)

func countLists(md string) int {
	return len(listItemRegex.FindAllString(md, -1))
}

var (
	emphasisRegex   = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	blankRunRegex   = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common Markdown formatting to produce plain text.
func stripMarkdown(md string) string {
	text := headingRegex.ReplaceAllString(md, "$2")
	text = emphasisRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$2")
	text = strings.ReplaceAll(text, "```", "")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
