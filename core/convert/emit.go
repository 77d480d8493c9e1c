package convert

import (
	"strings"

	"github.com/gaurav-prasanna/pagescrub/core/normalize"
)

// anchorFrame collects the output produced between <a> and </a>.
type anchorFrame struct {
	attrs    string
	buf      strings.Builder
	hasImage bool
	imageAlt string
}

// emitter accumulates converted output as lines. Writes are redirected into
// the open anchor, if any, and line breaks inside a table cell or an anchor
// become spaces so the row or label stays on one line.
type emitter struct {
	doc      normalize.Doc
	cur      strings.Builder
	curVerb  bool
	verbatim int
	inCell   bool
	anchor   *anchorFrame
}

// write appends s, starting a new line at each '\n'.
func (e *emitter) write(s string) {
	if s == "" {
		return
	}
	if e.anchor != nil {
		e.anchor.buf.WriteString(s)
		return
	}
	if e.inCell {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	for {
		i := strings.IndexByte(s, '\n')
		piece := s
		if i >= 0 {
			piece = s[:i]
		}
		if piece != "" {
			e.cur.WriteString(piece)
			if e.verbatim > 0 {
				e.curVerb = true
			}
		}
		if i < 0 {
			return
		}
		e.flush()
		s = s[i+1:]
	}
}

// newline ends the current line unconditionally.
func (e *emitter) newline() {
	e.write("\n")
}

// ensureNewline starts a fresh line unless the current one holds only
// whitespace, in which case that whitespace is discarded.
func (e *emitter) ensureNewline() {
	if e.anchor != nil || e.inCell {
		e.write(" ")
		return
	}
	if strings.TrimSpace(e.cur.String()) == "" {
		e.cur.Reset()
		e.curVerb = false
		return
	}
	e.flush()
}

func (e *emitter) flush() {
	e.doc = append(e.doc, normalize.Line{Text: e.cur.String(), Verbatim: e.curVerb})
	e.cur.Reset()
	e.curVerb = e.verbatim > 0
}

// finish flushes the last line and returns the document.
func (e *emitter) finish() normalize.Doc {
	e.flush()
	return e.doc
}
