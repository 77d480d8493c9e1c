package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/pagescrub/core/dump"
	"github.com/gaurav-prasanna/pagescrub/core/focus"
	"github.com/gaurav-prasanna/pagescrub/internal/logger"
)

// addSourceFlags registers the input, pages list and parsing flags shared by
// every command.
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("input", "db.out", "path to the tab-separated page export")
	fs.String("pages", "pages.list", "file of page names separated by commas or newlines")
	fs.Bool("prefix", false, "match page names as title prefixes")
	fs.Bool("nocase", false, "match page names case-insensitively")
	fs.Int("lines", 1000, "max data lines to read (0 for unlimited)")
	fs.String("bytes", "1MB", "max bytes per line, e.g. 4096 or 512KB (0 for unlimited)")
	fs.Bool("csv", false, "split fields honoring backslash-escaped tabs")
	fs.Bool("permit", false, "skip malformed rows and accept an unexpected header")
}

// source reads the flags registered by addSourceFlags for one command.
type source struct {
	v       *viper.Viper
	section string
}

func (s source) key(name string) string { return s.section + "." + name }

func (s source) dumpOptions(skipContent bool) (dump.Options, error) {
	lines := s.v.GetInt(s.key("lines"))
	if lines < 0 {
		return dump.Options{}, errors.New("--lines must be 0 or a positive integer")
	}
	maxBytes, err := dump.ParseSize(s.v.GetString(s.key("bytes")))
	if err != nil {
		return dump.Options{}, fmt.Errorf("--bytes: %w", err)
	}
	permit := s.v.GetBool(s.key("permit"))
	return dump.Options{
		Limits:        dump.Limits{MaxLines: lines, MaxBytes: maxBytes},
		StrictHeader:  !permit,
		StrictColumns: !permit,
		CSV:           s.v.GetBool(s.key("csv")),
		SkipContent:   skipContent,
	}, nil
}

// matchOptions returns the focus options. Unset flags fall back to the
// given defaults.
func (s source) matchOptions(prefix, caseSensitive bool) focus.Options {
	if s.v.IsSet(s.key("prefix")) {
		prefix = s.v.GetBool(s.key("prefix"))
	}
	if s.v.IsSet(s.key("nocase")) {
		caseSensitive = !s.v.GetBool(s.key("nocase"))
	}
	return focus.Options{CaseSensitive: caseSensitive, Prefix: prefix}
}

// load reads the pages list and the export.
func (s source) load(opts dump.Options, match focus.Options) (focus.List, dump.Result, error) {
	list, err := focus.Load(s.v.GetString(s.key("pages")), match.CaseSensitive)
	if err != nil {
		return focus.List{}, dump.Result{}, err
	}
	for _, name := range list.Duplicates {
		logger.Warn("duplicate page name ignored", "name", name)
	}

	input := s.v.GetString(s.key("input"))
	res, err := dump.ParseFile(input, opts)
	if err != nil {
		return list, dump.Result{}, err
	}
	logParseStats(input, res.Stats, opts)
	return list, res, nil
}

func logParseStats(input string, st dump.Stats, opts dump.Options) {
	if st.SkippedOversized > 0 {
		logger.Warn("Oversized line count", "count", st.SkippedOversized, "input", input)
	}
	if !opts.StrictColumns && st.SkippedMalformed > 0 {
		logger.Warn("Malformed row count", "count", st.SkippedMalformed, "input", input)
	}
	if !opts.StrictHeader && st.HeaderMismatch {
		logger.Warn(dump.HeaderError(input, st.HeaderColumns))
	}
	if st.ReachedLimit {
		logger.Warn(fmt.Sprintf("Line limit reached at line %d.", st.ReadLines))
	}
	logger.Debug("parsed export", "input", input, "lines", st.ReadLines)
}
