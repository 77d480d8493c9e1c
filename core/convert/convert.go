// Package convert turns one HTML page body into plain text and/or Markdown.
//
// The Converter runs a fixed pipeline per call: export escapes are decoded,
// script, style and comment blocks are removed, a byte-level tokenizer drives
// the structural emitter, the character filter enforces the output policy,
// and the whitespace normalizer canonicalizes lines. Markdown output is
// finally inspected by mdcheck. Every corrective action is counted in the
// result's Diagnostics; nothing in Diagnostics changes the output.
package convert

import (
	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/charfilter"
	"github.com/gaurav-prasanna/pagescrub/core/mdcheck"
	"github.com/gaurav-prasanna/pagescrub/core/normalize"
)

// Result is the output of one conversion. Strings for formats that were not
// requested are empty.
type Result struct {
	Text     string
	Markdown string
	// NoTags is the tag-free text before character filtering, set only when
	// the request asks for it.
	NoTags      string
	Diagnostics core.Diagnostics
	// Err is set by Batch when a row could not be converted.
	Err error
}

// Converter converts row content according to a validated Request. It holds
// no per-row state and is safe for concurrent use.
type Converter struct {
	req     Request
	checker *mdcheck.Checker
}

// New validates req, filling defaults first.
func New(req Request) (*Converter, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Converter{req: req, checker: mdcheck.New()}, nil
}

// Request returns the normalized request.
func (c *Converter) Request() Request {
	return c.req
}

// Convert runs the pipeline over content.
func (c *Converter) Convert(content string) Result {
	var res Result

	src, n := normalize.DecodeEscapes(content)
	res.Diagnostics.EscapesDecoded = n
	src, blocks := normalize.RemoveBlocks(src)
	res.Diagnostics.BlocksRemoved = blocks.Blocks
	res.Diagnostics.CommentsRemoved = blocks.Comments

	if c.req.WantsText() {
		res.Text = c.render(src, false, &res)
	}
	if c.req.WantsMarkdown() {
		res.Markdown = c.render(src, true, &res)
	}
	return res
}

// render runs one format pass. Markup, scheme and structure counts are taken
// from one pass only: the Markdown pass when Markdown is requested, the text
// pass otherwise. Filter and Markdown check counts describe each output and
// are summed.
func (c *Converter) render(src string, markdown bool, res *Result) string {
	r := newRun(markdown, c.req.Delimiter())
	doc := r.convert(src)
	if markdown == c.req.WantsMarkdown() {
		r.tally.report(&r.diag)
		res.Diagnostics.Add(r.diag)
	}
	if c.req.CaptureNoTags && res.NoTags == "" {
		res.NoTags = normalize.NormalizeNewlines(doc.String())
	}

	if c.req.Mode != ModeRaw {
		f := charfilter.New(c.req.Policy())
		doc = doc.Filter(f)
		addFilterCounts(&res.Diagnostics, f.Counts())
	}

	out := normalize.Lines(doc, normalize.LineOptions{
		Markdown:  markdown,
		Delimiter: c.req.Delimiter(),
	})
	if !c.req.KeepFooter {
		out = normalize.TrimFooter(out)
	}
	if markdown {
		found := c.checker.Check(out)
		res.Diagnostics.UnbalancedFences += found.UnbalancedFences
		res.Diagnostics.BrokenCodeSpans += found.BrokenCodeSpans
		res.Diagnostics.EmptyTargets += found.EmptyTargets
		res.Diagnostics.TableShapes += found.TableShapes
	}
	return out
}

func addFilterCounts(d *core.Diagnostics, c charfilter.Counts) {
	d.ControlRemoved += c.Control
	d.ZeroWidthRemoved += c.ZeroWidth
	d.TabsRemoved += c.Tabs
	d.NewlinesRemoved += c.Newlines
	d.NonASCIIRemoved += c.NonASCII
	d.Replacements += c.Replaced
	d.Suppressed += c.Suppressed
}
