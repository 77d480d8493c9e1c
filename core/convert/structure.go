package convert

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/pagescrub/core"
)

var (
	listFamily  = []string{"ul", "ol", "li"}
	tableFamily = []string{"table", "tr", "td", "th"}
)

// structureTally counts opening and closing list and table tags.
type structureTally struct {
	open  map[string]int
	close map[string]int
}

func (s *structureTally) count(t token) {
	switch t.name {
	case "ul", "ol", "li", "table", "tr", "td", "th":
	default:
		return
	}
	if s.open == nil {
		s.open = make(map[string]int)
		s.close = make(map[string]int)
	}
	if t.closing {
		s.close[t.name]++
		return
	}
	s.open[t.name]++
}

// mismatch describes every tag of family whose counts differ, or "".
func (s *structureTally) mismatch(family []string) string {
	var details []string
	for _, name := range family {
		o, c := s.open[name], s.close[name]
		if o != c {
			details = append(details, fmt.Sprintf("<%s> %d != </%s> %d", name, o, name, c))
		}
	}
	return strings.Join(details, "; ")
}

// report records at most one list and one table warning.
func (s *structureTally) report(d *core.Diagnostics) {
	if detail := s.mismatch(listFamily); detail != "" {
		d.ListMismatches++
		d.AddWarning(core.WarnListStructure, detail)
	}
	if detail := s.mismatch(tableFamily); detail != "" {
		d.TableMismatches++
		d.AddWarning(core.WarnTableStructure, detail)
	}
}
