package bionic

import (
	"strings"
	"unicode/utf8"
)

// RenderClassic renders text the way the browser-side renderer does: a word
// containing an ASCII digit gets each digit run emphasized, any other word
// gets its first half (rounded up) emphasized. Words are split on the
// browser whitespace class and whitespace is kept as is.
func RenderClassic(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	start := -1
	for i, r := range text {
		if isScriptSpace(r) {
			if start >= 0 {
				b.WriteString(classicWord(text[start:i]))
				start = -1
			}
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		b.WriteString(classicWord(text[start:]))
	}
	return b.String()
}

func classicWord(word string) string {
	if strings.IndexFunc(word, isASCIIDigit) >= 0 {
		return emphasizeDigits(word)
	}
	runes := []rune(word)
	split := (len(runes) + 1) / 2
	return Emit(string(runes[:split]), string(runes[split:]))
}

func emphasizeDigits(word string) string {
	var b strings.Builder
	inDigits := false
	for i := 0; i < len(word); {
		r, size := utf8.DecodeRuneInString(word[i:])
		digit := isASCIIDigit(r)
		if digit && !inDigits {
			b.WriteString(OpenTag)
		} else if !digit && inDigits {
			b.WriteString(CloseTag)
		}
		inDigits = digit
		b.WriteString(word[i : i+size])
		i += size
	}
	if inDigits {
		b.WriteString(CloseTag)
	}
	return b.String()
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
