// Package cmd - content command.
// This is the main command that orchestrates the pipeline:
// parse export -> resolve pages -> convert -> render -> write -> report.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/census"
	"github.com/gaurav-prasanna/pagescrub/core/charfilter"
	"github.com/gaurav-prasanna/pagescrub/core/convert"
	"github.com/gaurav-prasanna/pagescrub/core/focus"
	"github.com/gaurav-prasanna/pagescrub/core/normalize"
	"github.com/gaurav-prasanna/pagescrub/core/output"
	"github.com/gaurav-prasanna/pagescrub/core/render"
	"github.com/gaurav-prasanna/pagescrub/core/report"
	"github.com/gaurav-prasanna/pagescrub/internal/logger"
)

func newContentCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Write sanitized text or Markdown for every listed page",
		Long: `Content reads the export, finds each page named in the pages list and
writes its converted body to the output directory. Filenames are built from
the page names.

Examples:
  pagescrub content
  pagescrub content --format markdown --utf --replace '?'
  pagescrub content --pages docs.list --prefix --nocase --pdf
  pagescrub content --format both --verify --report run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContent(cmd, v)
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags)
	flags.String("output-dir", ".", "directory to write output files")

	// Conversion.
	flags.String("format", "text", "output format: text, markdown or both")
	flags.String("table-delim", "comma", "table cell delimiter in text output: comma or tab")
	flags.String("replace", "", "single printable character replacing filtered characters (default: remove)")
	flags.Bool("utf", false, "keep non-ASCII text and write UTF-8")
	flags.Bool("raw", false, "disable the character filter and write UTF-8")
	flags.Bool("no-tabs", false, "remove tab characters")
	flags.Bool("no-newlines", false, "remove newline characters")
	flags.Bool("footer", false, "keep footer sections (Resources/Community) instead of trimming them")
	flags.Bool("notags", false, "also write the tag-free text before filtering as <name>_notags.txt")
	flags.Int("workers", 4, "pages converted concurrently")

	// Extra outputs.
	flags.Bool("pdf", false, "also write a PDF for review")
	flags.Bool("json", false, "also write structured JSON")
	flags.Bool("reference", false, "also write html-to-markdown output as <name>_reference.md")
	flags.Bool("verify", false, "cross-check converted counts against an HTML parser")
	flags.String("report", "", "write a run report to this file (.json for JSON, otherwise YAML)")

	cmd.MarkFlagsMutuallyExclusive("utf", "raw")
	bindFlags(v, "content", flags)
	return cmd
}

// contentOptions are the extra outputs of a content run.
type contentOptions struct {
	outputDir string
	workers   int
	pdf       bool
	json      bool
	reference bool
	verify    bool
	report    string
}

func conversionRequest(v *viper.Viper) convert.Request {
	mode := convert.ModeASCII
	switch {
	case v.GetBool("content.raw"):
		mode = convert.ModeRaw
	case v.GetBool("content.utf"):
		mode = convert.ModeUTF
	}
	return convert.Request{
		Format:         convert.Format(strings.ToLower(v.GetString("content.format"))),
		TableDelimiter: strings.ToLower(v.GetString("content.table-delim")),
		ReplaceChar:    v.GetString("content.replace"),
		Mode:           mode,
		NoTabs:         v.GetBool("content.no-tabs"),
		NoNewlines:     v.GetBool("content.no-newlines"),
		KeepFooter:     v.GetBool("content.footer"),
		CaptureNoTags:  v.GetBool("content.notags"),
	}
}

func runContent(cmd *cobra.Command, v *viper.Viper) error {
	converter, err := convert.New(conversionRequest(v))
	if err != nil {
		return err
	}
	opts := contentOptions{
		outputDir: v.GetString("content.output-dir"),
		workers:   v.GetInt("content.workers"),
		pdf:       v.GetBool("content.pdf"),
		json:      v.GetBool("content.json"),
		reference: v.GetBool("content.reference"),
		verify:    v.GetBool("content.verify"),
		report:    v.GetString("content.report"),
	}

	src := source{v: v, section: "content"}
	dumpOpts, err := src.dumpOptions(false)
	if err != nil {
		return err
	}
	matchOpts := src.matchOptions(false, true)
	list, parsed, err := src.load(dumpOpts, matchOpts)
	if err != nil {
		return err
	}
	if len(list.Entries) == 0 {
		return errors.New("pages list must include at least one page name")
	}

	writer, err := output.New(opts.outputDir)
	if err != nil {
		return err
	}

	req := converter.Request()
	run := &report.Run{
		Input:    v.GetString("content.input"),
		Format:   string(req.Format),
		Encoding: req.Encoding(),
		Started:  time.Now().UTC(),
		Parse:    parsed.Stats,
	}

	var (
		matches []focus.Match
		rows    []core.Row
	)
	for _, m := range focus.Resolve(list.Entries, parsed.Rows, matchOpts) {
		if m.Row == nil {
			logger.Warn("Missing page: " + m.Entry.Name)
			run.Add(report.Page{Name: m.Entry.Name, Match: m.Label})
			continue
		}
		matches = append(matches, m)
		rows = append(rows, *m.Row)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, batchErr := converter.Batch(ctx, rows, opts.workers)

	p := &publisher{
		req:     req,
		opts:    opts,
		writer:  writer,
		stdout:  cmd.OutOrStdout(),
		census:  census.New(),
		refconv: normalize.NewReference(),
	}
	for i, m := range matches {
		page, err := p.publish(m, results[i])
		if err != nil {
			return err
		}
		run.Add(page)
	}
	run.Finished = time.Now().UTC()

	if opts.report != "" {
		if err := run.WriteFile(opts.report); err != nil {
			return err
		}
		logger.Debug("wrote report", "path", opts.report)
	}
	logger.Info(run.Summary())

	if batchErr != nil {
		return fmt.Errorf("conversion interrupted: %w", batchErr)
	}
	return nil
}

// publisher writes every output of one converted page.
type publisher struct {
	req     convert.Request
	opts    contentOptions
	writer  *output.Writer
	stdout  io.Writer
	census  *census.Taker
	refconv *normalize.ReferenceConverter
}

// publish writes the outputs of one page and logs its diagnostics. Only
// write failures are returned; a page that failed to convert is reported
// and skipped.
func (p *publisher) publish(m focus.Match, res convert.Result) (report.Page, error) {
	name, row := m.Entry.Name, *m.Row
	log := logger.With("page", name)
	entry := report.Page{Name: name, Match: m.Label, Row: m.Row}
	if res.Err != nil {
		log.Error("page could not be converted", "error", res.Err)
		entry.Error = res.Err.Error()
		return entry, nil
	}

	if p.opts.verify {
		p.verify(log, row, &res.Diagnostics)
	}

	page := core.Page{Row: row, Encoding: p.req.Encoding(), Diagnostics: res.Diagnostics}
	write := func(suffix string, r core.Renderer, content string, syntax string) error {
		page.Syntax = syntax
		data, err := r.Render(content, page)
		if err != nil {
			return fmt.Errorf("rendering %s for page %q: %w", r.Extension(), name, err)
		}
		path, err := p.writer.Write(name, suffix+r.Extension(), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.stdout, "Wrote %s (%s, %s)\n", path, row.ID, m.Label)
		entry.Files = append(entry.Files, path)
		entry.Bytes += uint64(len(data))
		return nil
	}

	// The richest rendering feeds the PDF and JSON outputs.
	primary, primarySyntax := res.Text, core.SyntaxText
	if p.req.WantsMarkdown() {
		primary, primarySyntax = res.Markdown, core.SyntaxMarkdown
	}

	steps := []struct {
		on      bool
		suffix  string
		r       core.Renderer
		content string
		syntax  string
	}{
		{p.req.WantsText(), "", render.ForSyntax(core.SyntaxText), res.Text, core.SyntaxText},
		{p.req.WantsMarkdown(), "", render.ForSyntax(core.SyntaxMarkdown), res.Markdown, core.SyntaxMarkdown},
		{p.req.CaptureNoTags, "_notags", render.NewTextRenderer(), res.NoTags, core.SyntaxText},
		{p.opts.pdf, "", render.NewPDFRenderer(), primary, primarySyntax},
		{p.opts.json, "", render.NewJSONRenderer(), primary, primarySyntax},
	}
	for _, s := range steps {
		if !s.on {
			continue
		}
		if err := write(s.suffix, s.r, s.content, s.syntax); err != nil {
			return entry, err
		}
	}

	if p.opts.reference {
		md, err := p.reference(row.Content)
		if err != nil {
			log.Warn("reference conversion failed", "error", err)
		} else if err := write("_reference", render.NewMarkdownRenderer(), md, core.SyntaxMarkdown); err != nil {
			return entry, err
		}
	}

	logDiagnostics(log, res.Diagnostics)
	entry.Diagnostics = &res.Diagnostics
	return entry, nil
}

// reference converts content with html-to-markdown, filtered with the same
// character policy as the main output.
func (p *publisher) reference(content string) (string, error) {
	md, err := p.refconv.Convert(content)
	if err != nil {
		return "", err
	}
	if p.req.Mode == convert.ModeRaw {
		return md, nil
	}
	md, _ = charfilter.String(md, p.req.Policy())
	return md, nil
}

func (p *publisher) verify(log *slog.Logger, row core.Row, d *core.Diagnostics) {
	counts, err := p.census.Take(row.Content)
	if err != nil {
		log.Warn("census failed", "error", err)
		return
	}
	for _, w := range census.Compare(counts, *d) {
		d.AddWarning(w.Category, w.Detail)
	}
}

// logDiagnostics logs the warning and info lines of one page.
func logDiagnostics(log *slog.Logger, d core.Diagnostics) {
	for _, line := range report.Lines(d) {
		if msg, ok := strings.CutPrefix(line, "Warning: "); ok {
			log.Warn(msg)
			continue
		}
		log.Info(strings.TrimPrefix(line, "Info: "))
	}
}
