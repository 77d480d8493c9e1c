// Package dump reads the tab-separated page export into core.Row records.
//
// The export has one header line followed by one record per line. Fields are
// separated by tabs; line breaks inside a page body arrive as literal
// backslash escapes and are left for the converter to decode.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/gaurav-prasanna/pagescrub/core"
)

// ErrParse is wrapped by every error caused by the shape of the input.
var ErrParse = errors.New("parse error")

// Header is the column list a strict parse requires.
var Header = []string{"id", "post_title", "post_content", "post_status", "post_date"}

// Limits bounds how much of the input is read. Zero means unlimited.
type Limits struct {
	MaxLines int
	MaxBytes uint64
}

// ParseSize reads a byte limit such as "0", "4096", "512KB" or "2 MiB".
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte limit %q: %w", s, err)
	}
	return n, nil
}

// Options controls parsing.
type Options struct {
	Limits Limits
	// StrictHeader fails on any header other than Header.
	StrictHeader bool
	// StrictColumns fails on a record without exactly five fields instead of
	// skipping it.
	StrictColumns bool
	// CSV splits fields honoring backslash-escaped tabs.
	CSV bool
	// SkipContent drops page bodies, for listings.
	SkipContent bool
}

// DefaultOptions is strict in both header and columns with no limits.
func DefaultOptions() Options {
	return Options{StrictHeader: true, StrictColumns: true}
}

// Stats describes what the parser read and skipped.
type Stats struct {
	ReadLines        int      `yaml:"read_lines" json:"read_lines"`
	SkippedMalformed int      `yaml:"skipped_malformed" json:"skipped_malformed"`
	SkippedOversized int      `yaml:"skipped_oversized" json:"skipped_oversized"`
	ReachedLimit     bool     `yaml:"reached_limit" json:"reached_limit"`
	HeaderMismatch   bool     `yaml:"header_mismatch" json:"header_mismatch"`
	HeaderColumns    []string `yaml:"header_columns,omitempty" json:"header_columns,omitempty"`
}

// Result holds the parsed rows in input order.
type Result struct {
	Rows  []core.Row
	Stats Stats
}

// ParseFile opens path and parses it.
func ParseFile(path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("input file not found: %s", path)
		}
		return Result{}, fmt.Errorf("input file could not be read: %s (%w)", path, err)
	}
	defer f.Close()
	return Parse(f, path, opts)
}

// Parse reads an export from r. name is used in error messages.
func Parse(r io.Reader, name string, opts Options) (Result, error) {
	br := bufio.NewReader(r)
	var res Result

	header, err := readLine(br)
	if header == "" && err != nil {
		if errors.Is(err, io.EOF) {
			return res, fmt.Errorf("%w: empty input file %s", ErrParse, name)
		}
		return res, fmt.Errorf("reading %s: %w", name, err)
	}
	cols := HeaderColumns(header)
	if !slices.Equal(cols, Header) {
		if opts.StrictHeader {
			return res, fmt.Errorf("%w: %s", ErrParse, HeaderError(name, cols))
		}
		res.Stats.HeaderMismatch = true
		res.Stats.HeaderColumns = cols
	}

	for lineNo := 2; ; lineNo++ {
		line, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return res, fmt.Errorf("reading %s: %w", name, err)
		}
		if line != "" {
			if opts.Limits.MaxLines > 0 && res.Stats.ReadLines >= opts.Limits.MaxLines {
				res.Stats.ReachedLimit = true
				break
			}
			row, skip, perr := parseRecord(line, lineNo, name, opts, &res.Stats)
			if perr != nil {
				return res, perr
			}
			if !skip {
				res.Rows = append(res.Rows, row)
			}
		}
		if err != nil {
			break
		}
	}
	return res, nil
}

func parseRecord(line string, lineNo int, name string, opts Options, st *Stats) (core.Row, bool, error) {
	st.ReadLines++
	if opts.Limits.MaxBytes > 0 && uint64(len(line)) > opts.Limits.MaxBytes {
		st.SkippedOversized++
		return core.Row{}, true, nil
	}

	var parts []string
	if opts.CSV {
		parts = splitEscaped(line)
	} else {
		parts = strings.SplitN(line, "\t", len(Header))
	}
	if len(parts) != len(Header) {
		if opts.StrictColumns {
			return core.Row{}, true, fmt.Errorf("%w: malformed row at line %d in %s: expected %d columns, got %d",
				ErrParse, lineNo, name, len(Header), len(parts))
		}
		st.SkippedMalformed++
		return core.Row{}, true, nil
	}

	row := core.Row{
		ID:      parts[0],
		Title:   parts[1],
		Content: parts[2],
		Status:  parts[3],
		Date:    parts[4],
	}
	if opts.SkipContent {
		row.Content = ""
	}
	return row, false, nil
}

// HeaderColumns splits a header line into trimmed, lower-cased names with any
// byte order mark removed.
func HeaderColumns(line string) []string {
	line = strings.TrimPrefix(line, "\ufeff")
	cols := strings.Split(line, "\t")
	for i, c := range cols {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return cols
}

// HeaderError describes an unexpected header.
func HeaderError(name string, cols []string) string {
	return fmt.Sprintf("unexpected header columns in %s: %q (expected %q)", name, cols, Header)
}

// readLine returns the next line without its terminator. Invalid UTF-8 is
// replaced so later stages always see valid text.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	return strings.ToValidUTF8(line, "\ufffd"), err
}

// splitEscaped splits on tabs, treating a backslash before a tab or another
// backslash as an escape. Other backslash sequences are kept for the escape
// decoder.
func splitEscaped(line string) []string {
	var (
		parts []string
		b     strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && (line[i+1] == '\t' || line[i+1] == '\\'):
			i++
			b.WriteByte(line[i])
		case c == '\t':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(parts, b.String())
}
