// Package focus loads the list of page names to process and resolves each
// name against the parsed rows.
package focus

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/dump"
)

// Match labels.
const (
	LabelExact  = "exact"
	LabelPrefix = "prefix"
	LabelNone   = "none"
)

// Entry is one requested page name.
type Entry struct {
	Name string
	Key  string
}

// List is a loaded focus list.
type List struct {
	Entries []Entry
	// Duplicates holds names dropped because their key was already listed.
	Duplicates []string
}

// Options controls matching.
type Options struct {
	CaseSensitive bool
	Prefix        bool
}

// Parse splits text on commas and newlines. Blank names are ignored and
// repeated keys are reported as duplicates.
func Parse(text string, caseSensitive bool) List {
	var list List
	seen := make(map[string]bool)
	text = strings.ReplaceAll(text, ",", "\n")
	for _, part := range strings.Split(text, "\n") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := dump.Key(name, caseSensitive)
		if seen[key] {
			list.Duplicates = append(list.Duplicates, name)
			continue
		}
		seen[key] = true
		list.Entries = append(list.Entries, Entry{Name: name, Key: key})
	}
	return list
}

// Load reads and parses a focus list file.
func Load(path string, caseSensitive bool) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return List{}, fmt.Errorf("pages list file not found: %s", path)
		}
		return List{}, fmt.Errorf("pages list file could not be read: %s (%w)", path, err)
	}
	return Parse(strings.ToValidUTF8(string(data), "\ufffd"), caseSensitive), nil
}

// Match is the resolution of one entry. Row is nil when nothing matched.
type Match struct {
	Entry Entry
	Label string
	Row   *core.Row
}

// Resolve matches every entry against rows in list order. An exact title
// match wins; otherwise, with prefix matching on, any title starting with
// the entry is a candidate. Several candidates are narrowed with
// dump.PickBest.
func Resolve(entries []Entry, rows []core.Row, opts Options) []Match {
	index := dump.TitleIndex(rows, opts.CaseSensitive)
	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		m := Match{Entry: e, Label: LabelNone}
		if best, ok := dump.PickBest(index[e.Key]); ok {
			m.Label, m.Row = LabelExact, &best
		} else if opts.Prefix {
			var candidates []core.Row
			for _, row := range rows {
				if strings.HasPrefix(dump.Key(row.Title, opts.CaseSensitive), e.Key) {
					candidates = append(candidates, row)
				}
			}
			if best, ok := dump.PickBest(candidates); ok {
				m.Label, m.Row = LabelPrefix, &best
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// Label reports how row relates to the list: the entry it matches exactly,
// or with prefix matching on, the longest entry its title starts with.
func Label(row core.Row, entries []Entry, opts Options) (label, name string) {
	key := dump.Key(row.Title, opts.CaseSensitive)
	for _, e := range entries {
		if key == e.Key {
			return LabelExact, e.Name
		}
	}
	if !opts.Prefix {
		return LabelNone, ""
	}
	var best *Entry
	for i := range entries {
		e := &entries[i]
		if strings.HasPrefix(key, e.Key) && (best == nil || len(e.Key) > len(best.Key)) {
			best = e
		}
	}
	if best == nil {
		return LabelNone, ""
	}
	return LabelPrefix, best.Name
}
