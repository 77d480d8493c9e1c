package normalize

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ReferenceConverter renders row content with html-to-markdown. Its output is
// a second opinion written next to the converter's own Markdown for review;
// it never replaces it.
type ReferenceConverter struct{}

// NewReference creates a ReferenceConverter.
func NewReference() *ReferenceConverter {
	return &ReferenceConverter{}
}

// Convert decodes export escapes, drops script, style and comment blocks,
// and converts what is left to Markdown.
func (c *ReferenceConverter) Convert(content string) (string, error) {
	content, _ = DecodeEscapes(content)
	content, _ = RemoveBlocks(content)
	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
