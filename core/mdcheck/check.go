// Package mdcheck inspects generated Markdown for structural defects. It only
// reports; the Markdown is never changed.
package mdcheck

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Findings counts each class of defect.
type Findings struct {
	// UnbalancedFences is 1 when a code fence is left open.
	UnbalancedFences int
	// BrokenCodeSpans counts backtick runs with no matching closing run on
	// the same line.
	BrokenCodeSpans int
	// EmptyTargets counts links and images whose destination is empty.
	EmptyTargets int
	// TableShapes counts pipe tables with rows of differing cell counts.
	TableShapes int
}

// Total is the number of findings of any kind.
func (f Findings) Total() int {
	return f.UnbalancedFences + f.BrokenCodeSpans + f.EmptyTargets + f.TableShapes
}

// Checker validates Markdown documents.
type Checker struct {
	md goldmark.Markdown
}

// New creates a Checker using a CommonMark parser.
func New() *Checker {
	return &Checker{md: goldmark.New()}
}

// Check scans src and returns its findings.
func (c *Checker) Check(src string) Findings {
	var f Findings
	c.scanLines(src, &f)
	f.EmptyTargets = c.emptyTargets(src)
	return f
}

func (c *Checker) scanLines(src string, f *Findings) {
	var (
		fences    int
		inFence   bool
		inTable   bool
		tableSize int
		flagged   bool
	)
	for _, line := range strings.Split(src, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~") {
			fences++
			inFence = !inFence
			inTable = false
			continue
		}
		if inFence {
			continue
		}

		if strings.HasPrefix(t, "|") {
			n := cellCount(t)
			switch {
			case !inTable:
				inTable, tableSize, flagged = true, n, false
			case n != tableSize && !flagged:
				f.TableShapes++
				flagged = true
			}
		} else {
			inTable = false
		}

		f.BrokenCodeSpans += unmatchedBackticks(t)
	}
	if fences%2 != 0 {
		f.UnbalancedFences = 1
	}
}

func (c *Checker) emptyTargets(src string) int {
	source := []byte(src)
	doc := c.md.Parser().Parse(text.NewReader(source))
	if doc == nil {
		return 0
	}
	n := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Link:
			if len(strings.TrimSpace(string(v.Destination))) == 0 {
				n++
			}
		case *ast.Image:
			if len(strings.TrimSpace(string(v.Destination))) == 0 {
				n++
			}
		}
		return ast.WalkContinue, nil
	})
	return n
}

// cellCount counts the cells of a pipe table row, ignoring escaped pipes
// and the optional outer pipes.
func cellCount(row string) int {
	row = strings.TrimPrefix(row, "|")
	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = strings.TrimSuffix(row, "|")
	}
	n := 1
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			n++
		}
	}
	return n
}

// unmatchedBackticks counts backtick runs on line that open a code span and
// never find a closing run of the same length.
func unmatchedBackticks(line string) int {
	broken := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '\\':
			i += 2
			continue
		case '`':
		default:
			i++
			continue
		}
		j := i
		for j < len(line) && line[j] == '`' {
			j++
		}
		run := j - i
		end := closingRun(line, j, run)
		if end < 0 {
			broken++
			i = j
			continue
		}
		i = end
	}
	return broken
}

// closingRun finds a backtick run of exactly n bytes at or after from and
// returns the index just past it, or -1.
func closingRun(line string, from, n int) int {
	for i := from; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(line) && line[j] == '`' {
			j++
		}
		if j-i == n {
			return j
		}
		i = j
	}
	return -1
}
