package normalize

import "strings"

var footerMarkers = map[string]bool{
	"resources": true,
	"community": true,
}

// TrimFooter cuts s at the first line that reads "Resources" or "Community"
// on its own, ignoring case and heading markers. Everything from that line
// on is dropped.
func TrimFooter(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		label := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if !footerMarkers[strings.ToLower(label)] {
			continue
		}
		kept := strings.TrimRight(strings.Join(lines[:i], "\n"), " \t\n")
		if kept == "" {
			return ""
		}
		return kept + "\n"
	}
	return s
}
