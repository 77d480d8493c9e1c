// Package normalize holds the string-level passes that run around the
// structural converter: export escape decoding, script/style/comment
// removal, entity decoding, line and whitespace normalization, footer
// trimming, and the html-to-markdown reference rendering.
package normalize

import "strings"

// DecodeEscapes turns the literal two-character sequences \r, \n and \t left
// by the database export into CR, LF and TAB. A doubled backslash is copied
// through together with the character after it, so "\\n" stays literal.
// Every other backslash sequence is left untouched. It returns the number of
// escapes decoded.
func DecodeEscapes(s string) (string, int) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch next := s[i+1]; next {
		case 'r':
			b.WriteByte('\r')
			n++
		case 'n':
			b.WriteByte('\n')
			n++
		case 't':
			b.WriteByte('\t')
			n++
		default:
			b.WriteByte(c)
			b.WriteByte(next)
		}
		i++
	}
	return b.String(), n
}
