package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagescrub/core"
)

func newTestConverter(t *testing.T, req Request) *Converter {
	t.Helper()
	c, err := New(req)
	require.NoError(t, err)
	return c
}

func textOf(t *testing.T, req Request, content string) string {
	t.Helper()
	req.Format = FormatText
	return newTestConverter(t, req).Convert(content).Text
}

func markdownOf(t *testing.T, req Request, content string) string {
	t.Helper()
	req.Format = FormatMarkdown
	return newTestConverter(t, req).Convert(content).Markdown
}

func TestConvertText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"link", `<a href="https://x">text</a>`, "text (https://x)\n"},
		{"link without text", `<a href="https://x"></a>`, "https://x\n"},
		{"link with title", `<a href="https://x" title="Home">text</a>`, "text (https://x \"Home\")\n"},
		{"link glued to word", `<a href="https://x">a</a>next`, "a (https://x) next\n"},
		{"nested inline", `<a href="https://example.com"><span>Go</span></a>`, "Go (https://example.com)\n"},
		{"linked image uses alt", `<a href="https://x"><img src="y.png" alt="Logo"></a>`, "Logo (https://x)\n"},
		{"linked image without alt", `<a href="https://x"><img src="y.png"></a>`, "image (https://x)\n"},
		{"image dropped", `<p>See <img src="https://x/p.png" alt="Pic"> here</p>`, "See here\n"},
		{"list", `<ul><li>One</li><li>Two</li></ul>`, "- One\n- Two\n"},
		{"ordered lists restart", `<ol><li>a</li><li>b</li></ol><ol><li>c</li></ol>`, "1. a\n2. b\n1. c\n"},
		{"nested list flattened", `<ul><li>One<ul><li>Sub</li></ul></li><li>Two</li></ul>`, "- One\n- Sub\n- Two\n"},
		{"empty item dropped", `<ul><li></li><li>Two</li></ul>`, "- Two\n"},
		{"heading", `<h2>Title</h2>Body`, "## Title\nBody\n"},
		{"comma table", `<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`, "A,B\n1,2\n"},
		{"emphasis stripped", `<p><strong>Bold</strong> and <em>it</em></p>`, "Bold and it\n"},
		{"pre keeps spaces", `<pre>x  y</pre>`, "x  y\n"},
		{"entities", `5 &lt; 6 &amp;&amp; x`, "5 < 6 && x\n"},
		{"escapes", `Line1\nLine2\tX`, "Line1\nLine2 X\n"},
		{"blocks removed", `<p>Hi</p><script>alert('x')</script><style>p{}</style><!-- c -->`, "Hi\n"},
		{"unknown tags stripped", `<div><span class="x">a</span><font>b</font></div>`, "a b\n"},
		{"ascii folding", "Caf\u00e9", "Cafe\n"},
		{"footer trimmed", `<p>Body</p><h2>Resources</h2><p>Links</p>`, "Body\n"},
		{"unterminated tag", `Hello <a href="x`, "Hello\n"},
		{"unclosed anchor", `<a href="https://x">dangling`, "dangling\n"},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textOf(t, Request{}, tt.content))
		})
	}
}

func TestConvertMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"link", `<a href="https://x">text</a>`, "[text](https://x)\n"},
		{"link title escaped", `<a href="https://x" title='say "hi"'>t</a>`, "[t](https://x \"say \\\"hi\\\"\")\n"},
		{"image", `<img src="https://x/p.png" alt="Pic">`, "![Pic](https://x/p.png)\n"},
		{"image title", `<img src="https://x/p.png" alt="Pic" title="A &quot;t&quot;">`, "![Pic](https://x/p.png \"A \\\"t\\\"\")\n"},
		{"heading", `<h1>T</h1><p>Body</p>`, "# T\n\nBody\n"},
		{"emphasis", `<p><strong>Bold</strong> and <em>it</em></p>`, "**Bold** and *it*\n"},
		{"inline code", `<p>Use <code>go test</code></p>`, "Use `go test`\n"},
		{"fenced pre", "<pre>a  b\n  c</pre>", "```\na  b\n  c\n```\n"},
		{"table", `<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`, "| A | B |\n| 1 | 2 |\n"},
		{"pipe in cell", `<table><tr><td>a|b</td></tr></table>`, "| a\\|b |\n"},
		{"list", `<ol><li>One</li><li>Two</li></ol>`, "1. One\n2. Two\n"},
		{"code span keeps spaces", `<p><code>a    b</code> and   c</p>`, "`a    b` and c\n"},
		{"brackets in label", `<a href="https://x">a]b [c]</a>`, "[a\\]b \\[c\\]](https://x)\n"},
		{"brackets in alt", `<img src="https://x/p.png" alt="[p]">`, "![\\[p\\]](https://x/p.png)\n"},
		{"linked image", `<a href="https://x"><img src="https://x/l.png" alt="L"></a>`, "[![L](https://x/l.png)](https://x)\n"},
		{"named anchor", `<a name="top">Top</a>`, "Top\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, markdownOf(t, Request{}, tt.content))
		})
	}
}

func TestConvertTabTable(t *testing.T) {
	got := textOf(t, Request{TableDelimiter: DelimTab},
		`<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`)
	assert.Equal(t, "A\tB\n1\t2\n", got)
}

func TestConvertBlockedSchemes(t *testing.T) {
	schemes := []string{
		"about", "blob", "chrome", "chrome-extension", "data", "file",
		"filesystem", "javascript", "moz-extension", "vbscript",
	}
	for _, s := range schemes {
		t.Run(s, func(t *testing.T) {
			raw := s + ":payload-" + s
			content := `<a href="` + raw + `">go</a> <img src="` + raw + `" alt="pic">`

			c := newTestConverter(t, Request{Format: FormatText})
			res := c.Convert(content)
			assert.Equal(t, "{go}\n", res.Text)
			assert.Equal(t, 1, res.Diagnostics.BlockedLinks)
			assert.NotContains(t, res.Text, raw)

			c = newTestConverter(t, Request{Format: FormatMarkdown})
			res = c.Convert(content)
			assert.Equal(t, "{go} {pic}\n", res.Markdown)
			assert.Equal(t, 1, res.Diagnostics.BlockedLinks)
			assert.Equal(t, 1, res.Diagnostics.BlockedImages)
			assert.NotContains(t, res.Markdown, raw)

			c = newTestConverter(t, Request{Format: FormatBoth})
			res = c.Convert(content)
			assert.Equal(t, "{go}\n", res.Text)
			assert.Equal(t, "{go} {pic}\n", res.Markdown)
			assert.Equal(t, 1, res.Diagnostics.AnchorsConverted)
			assert.Equal(t, 1, res.Diagnostics.BlockedLinks)
			assert.Equal(t, 1, res.Diagnostics.BlockedImages)
		})
	}
}

func TestConvertDisguisedScheme(t *testing.T) {
	inputs := []string{
		`<a href="java&#x200B;script:alert(1)">x</a>`,
		`<a href=" JaVaScRiPt:alert(1)">x</a>`,
		"<a href=\"java\u202escript:alert(1)\">x</a>",
		`<a href="java&#09;script:alert(1)">x</a>`,
	}
	for _, in := range inputs {
		res := newTestConverter(t, Request{}).Convert(in)
		assert.Equal(t, "{x}\n", res.Text, in)
		assert.NotContains(t, res.Text, "alert", in)
		assert.Equal(t, 1, res.Diagnostics.BlockedLinks, in)
	}
}

func TestConvertDoubleEncodedScheme(t *testing.T) {
	inputs := []string{
		`<a href="&amp;#106;avascript:alert(1)">x</a>`,
		`<a href="javascript&amp;#x3a;alert(1)">x</a>`,
		`<a href="&amp;amp;#106;avascript:alert(1)">x</a>`,
	}
	for _, in := range inputs {
		res := newTestConverter(t, Request{}).Convert(in)
		assert.Equal(t, "{x}\n", res.Text, in)
		assert.Equal(t, 1, res.Diagnostics.BlockedLinks, in)

		res = newTestConverter(t, Request{Format: FormatMarkdown}).Convert(in)
		assert.Equal(t, "{x}\n", res.Markdown, in)
		assert.NotContains(t, res.Markdown, "avascript", in)
		assert.Equal(t, 1, res.Diagnostics.BlockedLinks, in)
	}

	res := newTestConverter(t, Request{Format: FormatMarkdown}).
		Convert(`<img src="&amp;#106;avascript:alert(1)" alt="p">`)
	assert.Equal(t, "{p}\n", res.Markdown)
	assert.Equal(t, 1, res.Diagnostics.BlockedImages)
}

func TestConvertQuotedAttributeText(t *testing.T) {
	res := newTestConverter(t, Request{}).
		Convert(`<a title="href=https://good.example" href="https://evil.example">x</a>`)
	assert.Equal(t, "x (https://evil.example \"href=https://good.example\")\n", res.Text)

	res = newTestConverter(t, Request{Format: FormatMarkdown}).
		Convert(`<a title='href="https://good.example"' href="javascript:alert(1)">x</a>`)
	assert.Equal(t, "{x}\n", res.Markdown)
	assert.Equal(t, 1, res.Diagnostics.BlockedLinks)
}

func TestConvertEmptyTargets(t *testing.T) {
	links := []string{`<a href="">x</a>`, `<a href="&#8203;">x</a>`, `<a href="  ">x</a>`}
	for _, in := range links {
		for _, format := range []Format{FormatText, FormatMarkdown, FormatBoth} {
			res := newTestConverter(t, Request{Format: format}).Convert(in)
			if format != FormatMarkdown {
				assert.Equal(t, "x\n", res.Text, in)
			}
			if format != FormatText {
				assert.Equal(t, "x\n", res.Markdown, in)
			}
			assert.Equal(t, 1, res.Diagnostics.EmptyTargets, "%s %s", format, in)
			assert.True(t, res.Diagnostics.HasWarnings(), in)
		}
	}

	res := newTestConverter(t, Request{Format: FormatMarkdown}).Convert(`<img src="" alt="p">`)
	assert.Equal(t, "p\n", res.Markdown)
	assert.Equal(t, 1, res.Diagnostics.EmptyTargets)

	res = newTestConverter(t, Request{Format: FormatBoth}).Convert(`<a name="top">Top</a><img alt="p">`)
	assert.Zero(t, res.Diagnostics.EmptyTargets)
}

func TestConvertSchemeClasses(t *testing.T) {
	res := newTestConverter(t, Request{}).Convert(
		`<a href="//cdn.example.com/x">cdn</a> <a href="ftp://h/f">f</a> <a href="mailto:a@b.c">mail</a>`)
	assert.Equal(t, "cdn ({scheme?}://cdn.example.com/x) f (ftp://h/f) mail (mailto:a@b.c)\n", res.Text)
	assert.Equal(t, 1, res.Diagnostics.SchemelessLinks)
	assert.Equal(t, 1, res.Diagnostics.OtherSchemeLinks)
	assert.Zero(t, res.Diagnostics.BlockedLinks)
	assert.True(t, res.Diagnostics.HasWarnings())
}

func TestConvertCharacterFilter(t *testing.T) {
	res := newTestConverter(t, Request{}).Convert("A\u200b B")
	assert.Equal(t, "A B\n", res.Text)
	assert.Equal(t, 1, res.Diagnostics.ZeroWidthRemoved)

	res = newTestConverter(t, Request{ReplaceChar: "?"}).Convert("A\u200b B")
	assert.Equal(t, "A? B\n", res.Text)
	assert.Equal(t, 1, res.Diagnostics.Replacements)

	res = newTestConverter(t, Request{ReplaceChar: "?"}).Convert("A\u200b\u200b\u200bB")
	assert.Equal(t, "A?B\n", res.Text)
	assert.Equal(t, 1, res.Diagnostics.Replacements)
	assert.Equal(t, 2, res.Diagnostics.Suppressed)
	assert.Equal(t, 3, res.Diagnostics.ZeroWidthRemoved)
}

func TestConvertModes(t *testing.T) {
	res := newTestConverter(t, Request{}).Convert("Caf\u00e9")
	assert.Equal(t, "Cafe\n", res.Text)
	assert.Equal(t, 1, res.Diagnostics.NonASCIIRemoved)

	res = newTestConverter(t, Request{Mode: ModeUTF}).Convert("Caf\u00e9\u200b")
	assert.Equal(t, "Caf\u00e9\n", res.Text)
	assert.Zero(t, res.Diagnostics.NonASCIIRemoved)
	assert.Equal(t, 1, res.Diagnostics.ZeroWidthRemoved)

	res = newTestConverter(t, Request{Mode: ModeRaw}).Convert("A\u200b B")
	assert.Equal(t, "A\u200b B\n", res.Text)
	assert.Zero(t, res.Diagnostics.ZeroWidthRemoved)
}

func TestConvertNoNewlines(t *testing.T) {
	res := newTestConverter(t, Request{NoNewlines: true}).Convert(`<p>A</p><p>B</p>`)
	assert.Equal(t, "AB\n", res.Text)
	assert.Positive(t, res.Diagnostics.NewlinesRemoved)
}

func TestConvertFilterIdempotent(t *testing.T) {
	c := newTestConverter(t, Request{ReplaceChar: "?"})
	once := c.Convert("<p>x\u0007y \u00e9 \u200b z</p>").Text
	twice := c.Convert(once).Text
	assert.Equal(t, once, twice)
}

func TestConvertListMismatch(t *testing.T) {
	for _, format := range []Format{FormatText, FormatBoth} {
		t.Run(string(format), func(t *testing.T) {
			res := newTestConverter(t, Request{Format: format}).
				Convert(`<ul><li>One<li>Two</li><li>Three</li></ul>`)
			assert.Equal(t, 1, res.Diagnostics.ListMismatches)
			require.Len(t, res.Diagnostics.Warnings, 1)
			assert.Equal(t, core.WarnListStructure, res.Diagnostics.Warnings[0].Category)
			assert.Equal(t, "<li> 3 != </li> 2", res.Diagnostics.Warnings[0].Detail)
			if format == FormatText {
				assert.Equal(t, "- One\n- Two\n- Three\n", res.Text)
			}
		})
	}
}

func TestConvertTableMismatch(t *testing.T) {
	res := newTestConverter(t, Request{}).Convert(`<table><tr><td>a</td><td>b</tr></table>`)
	assert.Equal(t, 1, res.Diagnostics.TableMismatches)
	assert.Equal(t, "a,b\n", res.Text)
}

func TestConvertMarkdownTableShape(t *testing.T) {
	res := newTestConverter(t, Request{Format: FormatMarkdown}).
		Convert(`<table><tr><th>A</th><th>B</th></tr><tr><td>1</td></tr></table>`)
	assert.Equal(t, "| A | B |\n| 1 |\n", res.Markdown)
	assert.Equal(t, 1, res.Diagnostics.TableShapes)
}

func TestConvertBoth(t *testing.T) {
	res := newTestConverter(t, Request{Format: FormatBoth}).Convert("<h1>T\u00e9</h1>")
	assert.Equal(t, "# Te\n", res.Text)
	assert.Equal(t, "# Te\n", res.Markdown)
	assert.Equal(t, 1, res.Diagnostics.HeadingsConverted)
	assert.Equal(t, 1, res.Diagnostics.BlocksConverted)
	// Filter counts describe each output.
	assert.Equal(t, 2, res.Diagnostics.NonASCIIRemoved)
}

func TestConvertDiagnosticsCounts(t *testing.T) {
	res := newTestConverter(t, Request{}).Convert(
		`<!-- c --><p>Tom &amp; <b>Jerry</b></p><script>x</script>\n`)
	d := res.Diagnostics
	assert.Equal(t, 1, d.CommentsRemoved)
	assert.Equal(t, 1, d.BlocksRemoved)
	assert.Equal(t, 1, d.EntitiesDecoded)
	assert.Equal(t, 1, d.EscapesDecoded)
	assert.Equal(t, 2, d.TagsRemoved)
	assert.Equal(t, 2, d.BlocksConverted)
	assert.Equal(t, "Tom & Jerry\n", res.Text)
}

func TestConvertNoTags(t *testing.T) {
	res := newTestConverter(t, Request{CaptureNoTags: true}).Convert("<p>Tom &amp; <b>Jerry</b> \u00e9</p>")
	assert.Contains(t, res.NoTags, "Tom & Jerry \u00e9")
	assert.Equal(t, "Tom & Jerry e\n", res.Text)

	res = newTestConverter(t, Request{}).Convert("<p>x</p>")
	assert.Empty(t, res.NoTags)
}

func TestConvertKeepFooter(t *testing.T) {
	got := textOf(t, Request{KeepFooter: true}, `<p>Body</p><h2>Resources</h2><p>Links</p>`)
	assert.Contains(t, got, "## Resources")
	assert.Contains(t, got, "Links")
}

func TestNewRejectsInvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"long replacement", Request{ReplaceChar: "ab"}},
		{"non printable replacement", Request{ReplaceChar: "\t"}},
		{"non ascii replacement", Request{ReplaceChar: "\u00e9"}},
		{"bad format", Request{Format: "html"}},
		{"bad delimiter", Request{TableDelimiter: "pipe"}},
		{"bad mode", Request{Mode: "latin1"}},
		{"tab delimiter without tabs", Request{TableDelimiter: DelimTab, NoTabs: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := newTestConverter(t, Request{})
	assert.Equal(t, DefaultRequest(), c.Request())
	assert.Equal(t, "ascii", c.Request().Encoding())
	assert.Equal(t, ",", c.Request().Delimiter())
	assert.Equal(t, "utf-8", Request{Mode: ModeUTF}.Encoding())
}

func TestBatch(t *testing.T) {
	rows := []core.Row{
		{ID: "1", Content: `<a href="javascript:x">bad</a>`},
		{ID: "2", Content: `<p>two</p>`},
		{ID: "3", Content: `<ul><li>three</li></ul>`},
	}
	c := newTestConverter(t, Request{})
	results, err := c.Batch(context.Background(), rows, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "{bad}\n", results[0].Text)
	assert.Equal(t, 1, results[0].Diagnostics.BlockedLinks)
	assert.Equal(t, "two\n", results[1].Text)
	assert.Zero(t, results[1].Diagnostics.BlockedLinks)
	assert.Equal(t, "- three\n", results[2].Text)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestConverter(t, Request{})
	results, err := c.Batch(ctx, []core.Row{{ID: "1", Content: "x"}, {ID: "2", Content: "y"}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Empty(t, r.Text)
	}
}
