package normalize

import "strings"

// BlockCounts reports what RemoveBlocks took out.
type BlockCounts struct {
	Blocks   int // script and style elements
	Comments int
}

var blockTags = []string{"script", "style"}

// RemoveBlocks deletes every script and style element and every comment,
// tags and payload included, replacing each with a single space. A block
// with no terminator swallows the rest of the input.
func RemoveBlocks(s string) (string, BlockCounts) {
	var counts BlockCounts
	if strings.IndexByte(s, '<') < 0 {
		return s, counts
	}
	lower := asciiLower(s)
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		lt := strings.IndexByte(s[i:], '<')
		if lt < 0 {
			b.WriteString(s[i:])
			break
		}
		lt += i
		b.WriteString(s[i:lt])

		if strings.HasPrefix(s[lt:], "<!--") {
			counts.Comments++
			b.WriteByte(' ')
			end := strings.Index(s[lt+4:], "-->")
			if end < 0 {
				return b.String(), counts
			}
			i = lt + 4 + end + 3
			continue
		}

		if name := blockOpen(lower, lt); name != "" {
			counts.Blocks++
			b.WriteByte(' ')
			end := closeTagEnd(lower, lt+1+len(name), name)
			if end < 0 {
				return b.String(), counts
			}
			i = end
			continue
		}

		b.WriteByte('<')
		i = lt + 1
	}
	return b.String(), counts
}

// blockOpen returns the block tag name opening at lower[at], or "".
func blockOpen(lower string, at int) string {
	for _, name := range blockTags {
		rest := lower[at+1:]
		if !strings.HasPrefix(rest, name) {
			continue
		}
		if len(rest) == len(name) || !isTagNameByte(rest[len(name)]) {
			return name
		}
	}
	return ""
}

// closeTagEnd finds "</name" at or after from and returns the index just past
// its '>', or -1 when the element is never closed.
func closeTagEnd(lower string, from int, name string) int {
	needle := "</" + name
	for from < len(lower) {
		k := strings.Index(lower[from:], needle)
		if k < 0 {
			return -1
		}
		k += from
		after := k + len(needle)
		if after < len(lower) && isTagNameByte(lower[after]) {
			from = after
			continue
		}
		gt := strings.IndexByte(lower[after:], '>')
		if gt < 0 {
			return -1
		}
		return after + gt + 1
	}
	return -1
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == ':'
}

// asciiLower folds A-Z only, so byte offsets stay aligned with the input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
