package normalize

import (
	"strings"

	"github.com/gaurav-prasanna/pagescrub/core/charfilter"
)

// Line is one line of converted output. Verbatim lines come from pre/code
// regions and keep their inner whitespace.
type Line struct {
	Text     string
	Verbatim bool
}

// Doc is converted output split into lines. Line texts never contain '\n'.
type Doc []Line

// String joins the lines with '\n' without any normalization.
func (d Doc) String() string {
	parts := make([]string, len(d))
	for i, ln := range d {
		parts[i] = ln.Text
	}
	return strings.Join(parts, "\n")
}

// Filter runs f over every line. Line breaks go through the filter as '\n'
// too, so a policy that drops newlines joins the affected lines.
func (d Doc) Filter(f *charfilter.Filter) Doc {
	if len(d) == 0 {
		return nil
	}
	var (
		out  Doc
		cur  strings.Builder
		verb = d[0].Verbatim
	)
	for i, ln := range d {
		if i > 0 {
			if sep := f.Apply("\n"); sep == "\n" {
				out = append(out, Line{Text: cur.String(), Verbatim: verb})
				cur.Reset()
				verb = ln.Verbatim
			} else {
				cur.WriteString(sep)
				verb = verb && ln.Verbatim
			}
		}
		cur.WriteString(f.Apply(ln.Text))
	}
	return append(out, Line{Text: cur.String(), Verbatim: verb})
}

// LineOptions selects the target syntax for Lines.
type LineOptions struct {
	Markdown bool
	// Delimiter is the table cell delimiter of text output. One leading
	// delimiter is dropped from each line.
	Delimiter string
}

// Lines canonicalizes converted output: dangling list and heading markers are
// merged forward or dropped, blank lines between list items go away, runs of
// spaces collapse outside verbatim lines, a ')' glued to the next word gets a
// space, and blank-line runs shrink to one. The result ends with a single
// newline unless it is empty.
func Lines(d Doc, opts LineOptions) string {
	d = mergeDanglingMarkers(d)
	d = dropListBlankLines(d)

	out := make([]string, 0, len(d))
	blank := false
	for _, ln := range d {
		if ln.Verbatim {
			out = append(out, strings.TrimRight(ln.Text, " \t"))
			blank = false
			continue
		}
		text := ln.Text
		switch {
		case opts.Markdown:
			text = collapseMarkdown(text)
		case opts.Delimiter == "\t":
			parts := strings.Split(text, "\t")
			for i, p := range parts {
				parts[i] = separateInline(collapseSpaces(p), false)
			}
			text = strings.Join(parts, "\t")
		default:
			text = separateInline(collapseSpaces(text), false)
		}
		if !opts.Markdown && opts.Delimiter != "" {
			text = strings.TrimPrefix(text, opts.Delimiter)
		}
		if text == "" {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		blank = false
		out = append(out, text)
	}

	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func isBlank(ln Line) bool {
	return !ln.Verbatim && strings.TrimSpace(ln.Text) == ""
}

// isMarker reports a line holding only "-", "N." or one to six '#'.
func isMarker(s string) bool {
	switch {
	case s == "-":
		return true
	case len(s) >= 2 && s[len(s)-1] == '.' && allDigits(s[:len(s)-1]):
		return true
	case len(s) >= 1 && len(s) <= 6 && strings.Trim(s, "#") == "":
		return true
	}
	return false
}

func isListItem(ln Line) bool {
	if ln.Verbatim {
		return false
	}
	s := strings.TrimLeft(ln.Text, " \t")
	if strings.HasPrefix(s, "- ") {
		return true
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(s) && s[i] == '.' && (s[i+1] == ' ' || s[i+1] == '\t')
}

func mergeDanglingMarkers(d Doc) Doc {
	out := make(Doc, 0, len(d))
	for i := 0; i < len(d); {
		ln := d[i]
		marker := strings.TrimSpace(ln.Text)
		if ln.Verbatim || !isMarker(marker) {
			out = append(out, ln)
			i++
			continue
		}
		j := i + 1
		for j < len(d) && isBlank(d[j]) {
			j++
		}
		switch {
		case j == len(d):
			// Nothing ever follows; drop the marker.
			i++
		case d[j].Verbatim:
			out = append(out, ln)
			i++
		case isMarker(strings.TrimSpace(d[j].Text)), isListItem(d[j]):
			i = j
		default:
			out = append(out, Line{Text: marker + " " + strings.TrimSpace(d[j].Text)})
			i = j + 1
		}
	}
	return out
}

func dropListBlankLines(d Doc) Doc {
	out := make(Doc, 0, len(d))
	for i := 0; i < len(d); {
		if isBlank(d[i]) && len(out) > 0 && isListItem(out[len(out)-1]) {
			j := i + 1
			for j < len(d) && isBlank(d[j]) {
				j++
			}
			if j < len(d) && isListItem(d[j]) {
				i = j
				continue
			}
		}
		out = append(out, d[i])
		i++
	}
	return out
}

// collapseSpaces squeezes runs of spaces and tabs to one space and trims.
func collapseSpaces(s string) string {
	return strings.TrimSpace(squeeze(s))
}

// collapseMarkdown is collapseSpaces plus separateInline for a Markdown line,
// leaving the text of `code spans` untouched.
func collapseMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.IndexByte(s, '`')
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i+1:], '`')
		if j < 0 {
			break
		}
		end := i + j + 2
		b.WriteString(separateInline(squeeze(s[:i]), true))
		b.WriteString(s[i:end])
		s = s[end:]
	}
	b.WriteString(separateInline(squeeze(s), true))
	return strings.TrimSpace(b.String())
}

// squeeze replaces each run of spaces and tabs with one space.
func squeeze(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteByte(c)
	}
	return b.String()
}

// separateInline puts one space between ')' and a following word, link,
// brace or (in Markdown) image.
func separateInline(s string, markdown bool) string {
	if strings.IndexByte(s, ')') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] != ')' {
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == ' ' {
			j++
		}
		if j < len(s) && startsInline(s[j], markdown) {
			b.WriteByte(' ')
			i = j - 1
		}
	}
	return b.String()
}

func startsInline(c byte, markdown bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '[' || c == '{':
		return true
	case c == '!':
		return markdown
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
