package convert

import "strings"

type tokenKind int

const (
	textToken tokenKind = iota
	tagToken
)

type token struct {
	kind        tokenKind
	text        string // raw text run, entities still encoded
	name        string // lower-cased tag name
	attrs       string // raw attribute text
	closing     bool
	selfClosing bool
}

// scanState is the tokenizer position inside a tag.
type scanState int

const (
	outsideTag scanState = iota // TEXT_RUN
	tagOpen                     // collecting the tag name
	attrScan                    // collecting name=value pairs
	quotedValue                 // inside a quoted attribute value
)

// scanner splits markup into text runs and tags one byte at a time. It never
// builds a tree and never looks further ahead than the byte after '<'.
type scanner struct {
	src string
	pos int
	// truncated is set when the input ends inside a tag.
	truncated bool
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) next() (token, bool) {
	if s.pos >= len(s.src) {
		return token{}, false
	}
	var tok token
	var nameStart, attrStart int
	var quote, prev byte // prev is the last non-space byte seen in attrScan
	st := outsideTag
	start := s.pos
	for i := s.pos; i < len(s.src); i++ {
		c := s.src[i]
		switch st {
		case outsideTag:
			if c != '<' || !opensTag(s.src, i) {
				continue
			}
			if i > start {
				s.pos = i
				return token{kind: textToken, text: s.src[start:i]}, true
			}
			nameStart = i + 1
			if s.src[nameStart] == '/' {
				tok.closing = true
				nameStart++
			}
			i = nameStart - 1
			st = tagOpen
		case tagOpen:
			if isNameByte(c) || (i == nameStart && (c == '!' || c == '?')) {
				continue
			}
			tok.name = asciiLower(s.src[nameStart:i])
			attrStart = i
			st = attrScan
			i--
		case attrScan:
			switch {
			case c == '>':
				attrs := strings.TrimSpace(s.src[attrStart:i])
				if strings.HasSuffix(attrs, "/") {
					tok.selfClosing = true
					attrs = strings.TrimSpace(strings.TrimSuffix(attrs, "/"))
				}
				tok.kind = tagToken
				tok.attrs = attrs
				s.pos = i + 1
				return tok, true
			case (c == '"' || c == '\'') && prev == '=':
				quote = c
				st = quotedValue
			}
			if !isSpaceByte(c) {
				prev = c
			}
		case quotedValue:
			if c == quote {
				st = attrScan
				prev = c
			}
		}
	}
	s.pos = len(s.src)
	if st == outsideTag {
		return token{kind: textToken, text: s.src[start:]}, true
	}
	s.truncated = true
	return token{}, false
}

// opensTag reports whether the '<' at i starts markup rather than text.
func opensTag(src string, i int) bool {
	if i+1 >= len(src) {
		return false
	}
	c := src[i+1]
	switch {
	case isLetter(c), c == '!', c == '?':
		return true
	case c == '/':
		return i+2 < len(src) && isLetter(src[i+2])
	}
	return false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameByte(c byte) bool {
	return isLetter(c) || c >= '0' && c <= '9' || c == '-' || c == ':' || c == '_'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// asciiLower folds A-Z only.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
