package convert

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/normalize"
	"github.com/gaurav-prasanna/pagescrub/core/scheme"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "blockquote": true, "figure": true, "figcaption": true,
	"form": true, "label": true, "input": true, "textarea": true,
	"button": true, "hr": true,
}

// tableWrappers carry no output of their own.
var tableWrappers = map[string]bool{"thead": true, "tbody": true, "tfoot": true}

type listFrame struct {
	ordered bool
	n       int
}

// run is the mutable state of one conversion of one row to one format.
type run struct {
	markdown bool
	delim    string

	out   emitter
	diag  core.Diagnostics
	tally structureTally

	lists      []listFrame
	tableDepth int
	inRow      bool
	rowCells   int
	preDepth   int
	skipLF     bool
}

func newRun(markdown bool, delim string) *run {
	return &run{markdown: markdown, delim: delim}
}

// convert streams src through the scanner and returns the unfiltered lines.
func (r *run) convert(src string) normalize.Doc {
	sc := newScanner(src)
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind == textToken {
			r.text(tok.text)
			continue
		}
		r.tally.count(tok)
		r.tag(tok)
	}
	if sc.truncated {
		r.diag.TagsRemoved++
	}
	if r.out.anchor != nil {
		r.dropAnchor()
	}
	if r.inRow {
		r.closeRow()
	}
	return r.out.finish()
}

func (r *run) text(raw string) {
	s, n := normalize.DecodeEntities(raw)
	r.diag.EntitiesDecoded += n
	if r.skipLF {
		r.skipLF = false
		s = strings.TrimPrefix(s, "\n")
	}
	if r.tableDepth > 0 && !r.out.inCell && r.out.anchor == nil && strings.TrimSpace(s) == "" {
		return
	}
	if r.markdown && r.out.inCell {
		s = strings.ReplaceAll(s, "|", `\|`)
	}
	if r.markdown && r.out.anchor != nil {
		s = bracketEscaper.Replace(s)
	}
	r.out.write(s)
}

func (r *run) tag(t token) {
	switch name := t.name; {
	case name == "a":
		if t.closing {
			r.closeAnchor()
		} else {
			r.openAnchor(t)
		}
	case name == "img":
		if !t.closing {
			r.image(t)
		}
	case isHeading(name):
		r.heading(t)
	case name == "ul" || name == "ol" || name == "li":
		r.list(t)
	case name == "table" || name == "tr" || name == "td" || name == "th":
		r.table(t)
	case tableWrappers[name]:
	case name == "pre":
		r.pre(t)
	case name == "code":
		r.code(t)
	case name == "strong" || name == "b" || name == "em" || name == "i":
		r.emphasis(t)
	case name == "br":
		r.diag.BlocksConverted++
		r.out.newline()
	case blockTags[name]:
		r.diag.BlocksConverted++
		r.out.newline()
		if r.markdown {
			r.out.newline()
		}
	default:
		r.diag.TagsRemoved++
		r.out.write(" ")
	}
}

func isHeading(name string) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

func (r *run) heading(t token) {
	if t.closing {
		r.diag.BlocksConverted++
		r.out.newline()
		if r.markdown {
			r.out.newline()
		}
		return
	}
	r.diag.HeadingsConverted++
	level := int(t.name[1] - '0')
	r.out.newline()
	r.out.write(strings.Repeat("#", level) + " ")
}

func (r *run) list(t token) {
	if t.name == "li" {
		if t.closing {
			r.out.ensureNewline()
			return
		}
		r.diag.ListItemsConverted++
		r.out.ensureNewline()
		marker := "- "
		if n := len(r.lists); n > 0 && r.lists[n-1].ordered {
			r.lists[n-1].n++
			marker = strconv.Itoa(r.lists[n-1].n) + ". "
		}
		r.out.write(marker)
		return
	}
	r.diag.BlocksConverted++
	if t.closing {
		if n := len(r.lists); n > 0 {
			r.lists = r.lists[:n-1]
		}
	} else if !t.selfClosing {
		r.lists = append(r.lists, listFrame{ordered: t.name == "ol"})
	}
	r.out.ensureNewline()
}

func (r *run) table(t token) {
	switch {
	case t.name == "table" && !t.closing:
		r.tableDepth++
		r.out.ensureNewline()
	case t.name == "table":
		if r.inRow {
			r.closeRow()
		}
		if r.tableDepth > 0 {
			r.tableDepth--
		}
		r.out.ensureNewline()
	case t.name == "tr" && !t.closing:
		if r.inRow {
			r.closeRow()
		}
		r.openRow()
	case t.name == "tr":
		if r.inRow {
			r.closeRow()
		}
	case t.closing: // td, th
		r.out.inCell = false
	default:
		if !r.inRow {
			r.openRow()
		}
		r.out.inCell = false
		r.diag.TableCellsConverted++
		switch {
		case !r.markdown:
			r.out.write(r.delim)
		case r.rowCells == 0:
			r.out.write("| ")
		default:
			r.out.write(" | ")
		}
		r.rowCells++
		r.out.inCell = true
	}
}

func (r *run) openRow() {
	r.out.inCell = false
	r.out.ensureNewline()
	r.inRow = true
	r.rowCells = 0
}

func (r *run) closeRow() {
	r.out.inCell = false
	if r.markdown && r.rowCells > 0 {
		r.out.write(" |")
	}
	r.inRow = false
	r.rowCells = 0
	r.diag.BlocksConverted++
	r.out.ensureNewline()
}

func (r *run) pre(t token) {
	r.diag.BlocksConverted++
	if !t.closing {
		if r.markdown {
			r.out.ensureNewline()
			r.out.write("```")
		}
		r.out.newline()
		r.preDepth++
		r.out.verbatim++
		r.out.curVerb = true
		r.skipLF = true
		return
	}
	if r.preDepth == 0 {
		return
	}
	r.preDepth--
	r.skipLF = false
	r.out.verbatim--
	if r.markdown {
		r.out.ensureNewline()
		r.out.write("```")
	}
	r.out.newline()
}

func (r *run) code(t token) {
	if r.preDepth > 0 {
		// <pre><code> is one block.
		return
	}
	if r.markdown {
		r.diag.InlineConverted++
		r.out.write("`")
		return
	}
	r.diag.BlocksConverted++
	if t.closing {
		if r.out.verbatim > 0 {
			r.out.verbatim--
		}
		r.out.newline()
		return
	}
	r.out.newline()
	r.out.verbatim++
}

func (r *run) emphasis(t token) {
	if !r.markdown {
		r.diag.TagsRemoved++
		return
	}
	r.diag.InlineConverted++
	if t.name == "strong" || t.name == "b" {
		r.out.write("**")
		return
	}
	r.out.write("*")
}

func (r *run) openAnchor(t token) {
	if r.out.anchor != nil {
		r.dropAnchor()
	}
	r.out.anchor = &anchorFrame{attrs: t.attrs}
}

// dropAnchor emits the text of an anchor that was never closed, without a
// link.
func (r *run) dropAnchor() {
	a := r.out.anchor
	r.out.anchor = nil
	r.diag.TagsRemoved++
	r.out.write(a.buf.String())
}

func (r *run) closeAnchor() {
	a := r.out.anchor
	if a == nil {
		r.diag.TagsRemoved++
		r.out.write(" ")
		return
	}
	r.out.anchor = nil
	r.diag.AnchorsConverted++

	href, ok := scheme.Lookup(a.attrs, "href")
	url, class := scheme.Resolve(href)
	title := attrText(a.attrs, "title")
	label := strings.Join(strings.Fields(a.buf.String()), " ")
	if label == "" && a.hasImage && !r.markdown {
		label = a.imageAlt
		if label == "" {
			label = "image"
		}
	}
	if !ok {
		// Named anchors are not links.
		r.out.write(label)
		return
	}
	r.out.write(r.link(label, url, class, title))
}

func (r *run) link(label, url string, class scheme.Class, title string) string {
	switch class {
	case scheme.Empty:
		r.diag.EmptyTargets++
		return label
	case scheme.Schemeless:
		r.diag.SchemelessLinks++
		return schemelessToken(label, url, title)
	case scheme.Blocked:
		r.diag.BlockedLinks++
		return scheme.Placeholder(label, "link")
	case scheme.Other:
		r.diag.OtherSchemeLinks++
	}
	if r.markdown {
		if label == "" {
			label = bracketEscaper.Replace(url)
		}
		return "[" + label + "](" + url + markdownTitle(title) + ")"
	}
	if label == "" {
		return url + quotedTitle(title)
	}
	return label + " (" + url + quotedTitle(title) + ")"
}

func (r *run) image(t token) {
	alt := strings.Join(strings.Fields(attrText(t.attrs, "alt")), " ")
	if !r.markdown {
		r.diag.TagsRemoved++
		if a := r.out.anchor; a != nil && !a.hasImage {
			a.hasImage = true
			a.imageAlt = alt
		}
		r.out.write(" ")
		return
	}
	r.diag.ImagesConverted++
	raw, ok := scheme.Lookup(t.attrs, "src")
	src, class := scheme.Resolve(raw)
	title := attrText(t.attrs, "title")
	var s string
	switch class {
	case scheme.Empty:
		if ok {
			r.diag.EmptyTargets++
		}
		s = alt
	case scheme.Schemeless:
		r.diag.SchemelessImages++
		s = schemelessToken(alt, src, title)
	case scheme.Blocked:
		r.diag.BlockedImages++
		s = scheme.Placeholder(alt, "image")
	case scheme.Other:
		r.diag.OtherSchemeImages++
		fallthrough
	default:
		s = "![" + bracketEscaper.Replace(alt) + "](" + src + markdownTitle(title) + ")"
	}
	r.out.write(s)
}

// attrText returns an attribute value decoded for display.
func attrText(attrs, name string) string {
	return strings.TrimSpace(html.UnescapeString(scheme.Attr(attrs, name)))
}

func schemelessToken(label, url, title string) string {
	marked := scheme.MarkSchemeless(url)
	switch {
	case label != "":
		return label + " (" + marked + quotedTitle(title) + ")"
	default:
		return marked + quotedTitle(title)
	}
}

func quotedTitle(title string) string {
	if title == "" {
		return ""
	}
	return ` "` + title + `"`
}

// bracketEscaper keeps link labels and image alt text from closing the
// brackets around them.
var bracketEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

var titleEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func markdownTitle(title string) string {
	if title == "" {
		return ""
	}
	return ` "` + titleEscaper.Replace(title) + `"`
}
