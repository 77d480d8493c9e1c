// Package report renders conversion diagnostics for people: warning and
// info lines for the console, and a structured run report file.
package report

import (
	"fmt"
	"strconv"

	"github.com/gaurav-prasanna/pagescrub/core"
)

// Count is one labelled informational counter.
type Count struct {
	Label string
	N     int
}

// Counts lists the informational counters of d in display order, zero
// values included.
func Counts(d core.Diagnostics) []Count {
	return []Count{
		{"Blocks removed", d.BlocksRemoved},
		{"Comments removed", d.CommentsRemoved},
		{"Tags removed", d.TagsRemoved},
		{"Entities decoded", d.EntitiesDecoded},
		{"Escapes decoded", d.EscapesDecoded},
		{"Anchors converted", d.AnchorsConverted},
		{"Images converted", d.ImagesConverted},
		{"Headings converted", d.HeadingsConverted},
		{"List items converted", d.ListItemsConverted},
		{"Table cells converted", d.TableCellsConverted},
		{"Blocks converted", d.BlocksConverted},
		{"Inline styles converted", d.InlineConverted},
		{"Blocked scheme links", d.BlockedLinks},
		{"Blocked scheme images", d.BlockedImages},
		{"Missing scheme links", d.SchemelessLinks},
		{"Missing scheme images", d.SchemelessImages},
		{"Control chars removed", d.ControlRemoved},
		{"Zero-width removed", d.ZeroWidthRemoved},
		{"Tabs removed", d.TabsRemoved},
		{"Newlines removed", d.NewlinesRemoved},
		{"Non-ASCII removed", d.NonASCIIRemoved},
		{"Replacement chars", d.Replacements},
		{"Replacements suppressed", d.Suppressed},
	}
}

// Warnings lists every warning of d: the recorded structure warnings first,
// then scheme and Markdown findings that have a non-zero count.
func Warnings(d core.Diagnostics) []core.Warning {
	out := append([]core.Warning(nil), d.Warnings...)
	for _, c := range []Count{
		{"Non-HTTP scheme links:", d.OtherSchemeLinks},
		{"Non-HTTP scheme images:", d.OtherSchemeImages},
		{"Missing scheme links:", d.SchemelessLinks},
		{"Missing scheme images:", d.SchemelessImages},
		{"Unbalanced code fences:", d.UnbalancedFences},
		{"Broken code spans:", d.BrokenCodeSpans},
		{"Empty link targets:", d.EmptyTargets},
		{"Inconsistent table rows:", d.TableShapes},
	} {
		if c.N > 0 {
			out = append(out, core.Warning{Category: c.Label, Detail: strconv.Itoa(c.N)})
		}
	}
	return out
}

// Lines renders d as "Warning: <category> <detail>" lines followed by
// "Info: <category> count: N" lines. Zero counts are omitted.
func Lines(d core.Diagnostics) []string {
	var lines []string
	for _, w := range Warnings(d) {
		lines = append(lines, fmt.Sprintf("Warning: %s %s", w.Category, w.Detail))
	}
	for _, c := range Counts(d) {
		if c.N > 0 {
			lines = append(lines, fmt.Sprintf("Info: %s count: %d", c.Label, c.N))
		}
	}
	return lines
}
