package scheme

import "strings"

// Attr extracts the raw value of attribute name from the attribute text of a
// tag (everything between the tag name and the closing '>'). Attributes are
// read in order as name[=value] pairs, so text inside a quoted value never
// matches. Matching is case-insensitive and the first occurrence wins.
// Double-quoted, single-quoted and unquoted values are accepted; the value is
// trimmed but not entity-decoded.
func Attr(attrs, name string) string {
	v, _ := Lookup(attrs, name)
	return v
}

// Lookup is Attr that also reports whether the attribute is present.
func Lookup(attrs, name string) (string, bool) {
	name = asciiLower(name)
	for i := 0; i < len(attrs); {
		i = skipSpace(attrs, i)
		if i >= len(attrs) {
			break
		}
		if attrs[i] == '/' || attrs[i] == '>' || attrs[i] == '=' {
			i++
			continue
		}
		start := i
		for i < len(attrs) && !isSpace(attrs[i]) && attrs[i] != '=' && attrs[i] != '>' && attrs[i] != '/' {
			i++
		}
		key := asciiLower(attrs[start:i])

		var value string
		if j := skipSpace(attrs, i); j < len(attrs) && attrs[j] == '=' {
			value, i = attrValue(attrs, skipSpace(attrs, j+1))
		}
		if key == name {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// attrValue reads the value starting at i and returns it with the offset
// just past it.
func attrValue(attrs string, i int) (string, int) {
	if i >= len(attrs) {
		return "", i
	}
	switch q := attrs[i]; q {
	case '"', '\'':
		k := strings.IndexByte(attrs[i+1:], q)
		if k < 0 {
			return attrs[i+1:], len(attrs)
		}
		return attrs[i+1 : i+1+k], i + k + 2
	default:
		k := i
		for k < len(attrs) && !isSpace(attrs[k]) && attrs[k] != '>' && attrs[k] != '"' && attrs[k] != '\'' {
			k++
		}
		return attrs[i:k], k
	}
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

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
