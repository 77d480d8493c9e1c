// Package charfilter enforces the character-safety policy applied to
// converted output: control, zero-width and (optionally) non-ASCII
// characters are removed or replaced, with every action counted.
package charfilter

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidReplacement is returned when the replacement is not exactly one
// printable ASCII character.
var ErrInvalidReplacement = errors.New("replacement must be a single printable ASCII character")

// Policy controls what the filter keeps.
type Policy struct {
	// Replace is written in place of a filtered character. Empty removes.
	Replace      string
	KeepTabs     bool
	KeepNewlines bool
	// ASCIIOnly folds to NFKD first and then filters every non-ASCII rune.
	ASCIIOnly bool
}

// DefaultPolicy removes filtered characters and keeps tabs and newlines.
func DefaultPolicy() Policy {
	return Policy{KeepTabs: true, KeepNewlines: true, ASCIIOnly: true}
}

// Validate checks the replacement character.
func (p Policy) Validate() error {
	if p.Replace == "" {
		return nil
	}
	if len(p.Replace) != 1 || p.Replace[0] < 0x20 || p.Replace[0] > 0x7e {
		return ErrInvalidReplacement
	}
	return nil
}

// Counts tallies filter actions. Suppressed replacements still count in
// their category but not in Replacements.
type Counts struct {
	Control    int
	ZeroWidth  int
	Tabs       int
	Newlines   int
	NonASCII   int
	Replaced   int
	Suppressed int
}

// Filter applies a Policy. A Filter carries the run-length state used to
// suppress consecutive replacement markers, so one Filter should be used for
// one logical document and never shared between goroutines.
type Filter struct {
	policy Policy
	counts Counts
	// run is the number of replacement markers written since the last kept
	// character.
	run int
}

// New returns a Filter for p. The policy is assumed valid.
func New(p Policy) *Filter {
	return &Filter{policy: p}
}

// Counts returns the tallies so far.
func (f *Filter) Counts() Counts {
	return f.counts
}

// Apply filters s, continuing the replacement run from previous calls.
func (f *Filter) Apply(s string) string {
	if s == "" {
		return s
	}
	if f.policy.ASCIIOnly {
		s = norm.NFKD.String(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			if f.policy.KeepNewlines {
				f.keep(&b, r)
				continue
			}
			f.counts.Newlines++
		case r == '\t':
			if f.policy.KeepTabs {
				f.keep(&b, r)
				continue
			}
			f.counts.Tabs++
		case IsControl(r):
			f.counts.Control++
		case IsInvisible(r):
			f.counts.ZeroWidth++
		case r > 0x7f && f.policy.ASCIIOnly:
			f.counts.NonASCII++
		default:
			f.keep(&b, r)
			continue
		}
		f.replace(&b)
	}
	return b.String()
}

func (f *Filter) keep(b *strings.Builder, r rune) {
	b.WriteRune(r)
	f.run = 0
}

func (f *Filter) replace(b *strings.Builder) {
	if f.policy.Replace == "" {
		return
	}
	if f.run >= 1 {
		f.counts.Suppressed++
		return
	}
	b.WriteString(f.policy.Replace)
	f.counts.Replaced++
	f.run++
}

// String filters s with a fresh Filter.
func String(s string, p Policy) (string, Counts) {
	f := New(p)
	out := f.Apply(s)
	return out, f.counts
}

// IsControl reports C0 controls (tab and newline included), DEL and C1.
func IsControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f)
}

// IsInvisible reports zero-width and bidirectional formatting characters.
func IsInvisible(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff',
		'\u200e', '\u200f',
		'\u202a', '\u202b', '\u202c', '\u202d', '\u202e',
		'\u2066', '\u2067', '\u2068', '\u2069':
		return true
	}
	return false
}
