package bionic

import (
	"math"
	"strings"
	"unicode/utf8"
)

// SplitWords splits text into maximal runs of non-whitespace (words) and
// maximal runs of whitespace (separators), both in original order.
// Whitespace preceding the first word is returned as separators[0].
func SplitWords(text string) (words, separators []string) {
	start := 0
	inSpace := false
	for i, r := range text {
		space := isSeparator(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			if inSpace {
				separators = append(separators, text[start:i])
			} else {
				words = append(words, text[start:i])
			}
			start = i
			inSpace = space
		}
	}
	if start < len(text) {
		if inSpace {
			separators = append(separators, text[start:])
		} else {
			words = append(words, text[start:])
		}
	}
	return words, separators
}

// SimpleBoldLength returns how many eligible characters of a word are
// emphasized in simple mode.
func SimpleBoldLength(charCount int) int {
	switch {
	case charCount <= 2:
		return 1
	case charCount <= 4:
		return 2
	case charCount <= 6:
		return 3
	}
	return int(math.Ceil(float64(charCount) * 0.4))
}

// BoldWord splits a single whitespace-free word for simple mode. Words
// without any eligible character come back as plain segments.
func BoldWord(word string) Segment {
	n := CountEligible(word)
	if n == 0 {
		return plainSegment(word)
	}
	bold, normal := partition(word, SimpleBoldLength(n), true)
	return Segment{Bold: bold, Normal: normal}
}

// RenderSimple renders text in simple mode. Separators are reattached by
// position: separator i follows word i.
func RenderSimple(text string) string {
	words, separators := SplitWords(text)
	var b strings.Builder
	b.Grow(len(text) + len(words)*(len(OpenTag)+len(CloseTag)))
	for i, word := range words {
		b.WriteString(BoldWord(word).Markup())
		if i < len(separators) {
			b.WriteString(separators[i])
		}
	}
	return b.String()
}

// partition walks token left to right. Eligible characters go bold while
// fewer than boldLength of them have been seen; a non-eligible character
// goes wherever the current count puts it without advancing the count, and
// only when nonEligibleBold allows it.
func partition(token string, boldLength int, nonEligibleBold bool) (string, string) {
	var bold, normal strings.Builder
	seen := 0
	for i := 0; i < len(token); {
		r, size := utf8.DecodeRuneInString(token[i:])
		chunk := token[i : i+size]
		i += size

		if IsEligible(r) {
			if seen < boldLength {
				bold.WriteString(chunk)
			} else {
				normal.WriteString(chunk)
			}
			seen++
			continue
		}
		if nonEligibleBold && seen < boldLength {
			bold.WriteString(chunk)
		} else {
			normal.WriteString(chunk)
		}
	}
	return bold.String(), normal.String()
}
