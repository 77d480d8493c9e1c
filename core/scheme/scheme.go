// Package scheme classifies link and image targets by URL scheme and renders
// each class as a visible token. Values are canonicalized before they are
// classified, so invisible characters cannot disguise a blocked scheme.
package scheme

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/pagescrub/core/charfilter"
)

// Class is the outcome of classifying a URL.
type Class int

const (
	Empty Class = iota
	Standard
	Other
	Schemeless
	Blocked
)

func (c Class) String() string {
	switch c {
	case Standard:
		return "standard"
	case Other:
		return "other"
	case Schemeless:
		return "schemeless"
	case Blocked:
		return "blocked"
	default:
		return "empty"
	}
}

// MissingMarker replaces the absent scheme of a protocol-relative URL.
const MissingMarker = "{scheme?}:"

var blocked = map[string]bool{
	"about":            true,
	"blob":             true,
	"chrome":           true,
	"chrome-extension": true,
	"data":             true,
	"file":             true,
	"filesystem":       true,
	"javascript":       true,
	"moz-extension":    true,
	"vbscript":         true,
}

var standard = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// IsBlocked reports whether name is on the scheme denylist.
func IsBlocked(name string) bool {
	return blocked[strings.ToLower(name)]
}

// Clean decodes entities in a raw attribute value, trims it, and drops
// whitespace, control, zero-width and bidi characters anywhere inside it.
func Clean(raw string) string {
	s := strings.TrimSpace(html.UnescapeString(raw))
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || charfilter.IsControl(r) || charfilter.IsInvisible(r) {
			return -1
		}
		return r
	}, s)
}

// Name returns the lower-cased scheme of url, or "" when it has none.
func Name(url string) string {
	for i := 0; i < len(url); i++ {
		c := url[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '.' || c == '-'):
		case i > 0 && c == ':':
			return strings.ToLower(url[:i])
		default:
			return ""
		}
	}
	return ""
}

// Classify assigns url, already cleaned, to a Class.
func Classify(url string) Class {
	if url == "" {
		return Empty
	}
	if strings.HasPrefix(url, "//") {
		return Schemeless
	}
	name := Name(url)
	switch {
	case name == "":
		return Standard
	case blocked[name]:
		return Blocked
	case standard[name]:
		return Standard
	default:
		return Other
	}
}

// maxDecode bounds the entity decoding rounds of Resolve.
const maxDecode = 4

// Resolve cleans raw and classifies it. A value whose entities were escaped
// more than once decodes to something else in any renderer that reads the
// output, so the class is taken from the value decoded until it stops
// changing. The returned URL is the once-cleaned value, except for
// protocol-relative URLs, which are returned fully decoded.
func Resolve(raw string) (string, Class) {
	url := Clean(raw)
	deep := url
	for i := 0; i < maxDecode && strings.IndexByte(deep, '&') >= 0; i++ {
		next := Clean(deep)
		if next == deep {
			break
		}
		deep = next
	}
	class := Classify(deep)
	if class == Schemeless {
		return deep, class
	}
	return url, class
}

// MarkSchemeless prefixes a protocol-relative URL with MissingMarker.
func MarkSchemeless(url string) string {
	if strings.HasPrefix(url, "//") {
		return MissingMarker + url
	}
	return url
}

// Placeholder renders the visible token shown instead of a blocked URL.
func Placeholder(label, fallback string) string {
	if label == "" {
		label = fallback
	}
	return "{" + label + "}"
}
