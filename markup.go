package bionic

import "strings"

// Emphasis markers. Input text is never escaped: a literal "<" or ">" in the
// source passes through as is.
const (
	OpenTag  = "<b>"
	CloseTag = "</b>"
)

// Segment is one token split into its emphasized head and its plain tail.
// When Plain is set the token had nothing to emphasize and Normal holds it
// verbatim.
type Segment struct {
	Bold   string
	Normal string
	Plain  bool
}

// plainSegment wraps a token that is emitted without markup
func plainSegment(token string) Segment {
	return Segment{Normal: token, Plain: true}
}

// Text returns the token text without markup
func (s Segment) Text() string {
	return s.Bold + s.Normal
}

// Markup renders the segment
func (s Segment) Markup() string {
	if s.Plain {
		return s.Normal
	}
	return Emit(s.Bold, s.Normal)
}

// Emit wraps bold in the emphasis marker and appends normal.
func Emit(bold, normal string) string {
	var b strings.Builder
	b.Grow(len(OpenTag) + len(bold) + len(CloseTag) + len(normal))
	b.WriteString(OpenTag)
	b.WriteString(bold)
	b.WriteString(CloseTag)
	b.WriteString(normal)
	return b.String()
}
