package normalize

import (
	"strings"

	"golang.org/x/net/html"
)

// DecodeEntities resolves named and numeric character references, maps
// non-breaking spaces to plain spaces and folds CRLF and CR to LF. It
// returns the number of entity-shaped sequences seen (&name; or &#NN;).
func DecodeEntities(s string) (string, int) {
	n := countEntities(s)
	if strings.IndexByte(s, '&') >= 0 {
		s = html.UnescapeString(s)
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return NormalizeNewlines(s), n
}

// NormalizeNewlines folds CRLF and lone CR to LF.
func NormalizeNewlines(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func countEntities(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			continue
		}
		j := i + 1
		for j < len(s) && isEntityByte(s[j]) {
			j++
		}
		if j > i+1 && j < len(s) && s[j] == ';' {
			n++
			i = j
		}
	}
	return n
}

func isEntityByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '#'
}
