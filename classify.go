package bionic

import "unicode"

const (
	hangulFirst = 0xAC00 // 가
	hangulLast  = 0xD7A3 // 힣
)

// IsEligible reports whether r counts toward a token's content length:
// letters, numbers, underscore and precomposed Hangul syllables.
func IsEligible(r rune) bool {
	if r == '_' || (r >= hangulFirst && r <= hangulLast) {
		return true
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// CountEligible returns the number of eligible characters in s
func CountEligible(s string) int {
	n := 0
	for _, r := range s {
		if IsEligible(r) {
			n++
		}
	}
	return n
}

// isSeparator matches the whitespace class used to split words. The
// information separators U+001C..U+001F are included on top of unicode.IsSpace.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1C && r <= 0x1F)
}

// isScriptSpace matches the browser regular expression class \s: space
// separators, line terminators, tab, vertical tab, form feed and the byte
// order mark. Unlike isSeparator it excludes U+001C..U+001F and U+0085.
func isScriptSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0xFEFF, 0x2028, 0x2029:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
