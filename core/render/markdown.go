// Package render provides output renderers for converted pages.
// This file implements the plain text and Markdown renderers, which only
// enforce the output encoding.
package render

import (
	"github.com/gaurav-prasanna/pagescrub/core"
)

// Encode returns s as bytes in the given encoding. ASCII output silently
// drops every byte outside 7-bit ASCII; UTF-8 output is passed through.
func Encode(s, encoding string) []byte {
	if encoding != core.EncodingASCII {
		return []byte(s)
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			out = append(out, s[i])
		}
	}
	return out
}

// TextRenderer writes plain text.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render encodes the text.
func (r *TextRenderer) Render(content string, page core.Page) ([]byte, error) {
	return Encode(content, page.Encoding), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

// MarkdownRenderer writes Markdown as-is.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render encodes the Markdown.
func (r *MarkdownRenderer) Render(content string, page core.Page) ([]byte, error) {
	return Encode(content, page.Encoding), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// ForSyntax returns the file renderer for converted content of the given
// syntax.
func ForSyntax(syntax string) core.Renderer {
	if syntax == core.SyntaxMarkdown {
		return NewMarkdownRenderer()
	}
	return NewTextRenderer()
}
