package dump

import (
	"strings"

	"github.com/gaurav-prasanna/pagescrub/core"
)

// Key folds a title for lookups.
func Key(title string, caseSensitive bool) string {
	if caseSensitive {
		return title
	}
	return strings.ToLower(title)
}

// TitleIndex groups rows by title key, keeping input order within a group.
func TitleIndex(rows []core.Row, caseSensitive bool) map[string][]core.Row {
	index := make(map[string][]core.Row, len(rows))
	for _, row := range rows {
		k := Key(row.Title, caseSensitive)
		index[k] = append(index[k], row)
	}
	return index
}

// StatusRank orders statuses: publish, draft, private, then everything else.
func StatusRank(status string) int {
	switch strings.ToLower(status) {
	case "publish":
		return 0
	case "draft":
		return 1
	case "private":
		return 2
	default:
		return 3
	}
}

// PickBest chooses among rows sharing a title: the best status wins, and the
// newest date breaks ties. The first row wins a full tie.
func PickBest(rows []core.Row) (core.Row, bool) {
	if len(rows) == 0 {
		return core.Row{}, false
	}
	best := rows[0]
	for _, row := range rows[1:] {
		rank, bestRank := StatusRank(row.Status), StatusRank(best.Status)
		if rank < bestRank || rank == bestRank && row.Date > best.Date {
			best = row
		}
	}
	return best, true
}
