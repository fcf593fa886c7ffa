package bionic

import (
	"math"
	"strings"
)

// DefaultBoldRatio applies to tags missing from the ratio table
const DefaultBoldRatio = 0.3

var boldRatios = map[PosTag]float64{
	Noun:           0.4,
	Verb:           0.4,
	Adjective:      0.4,
	Adverb:         0.3,
	Determiner:     0.3,
	Exclamation:    0.3,
	Josa:           0.2,
	Eomi:           0.2,
	PreEomi:        0.2,
	Conjunction:    0.2,
	Punctuation:    0.0,
	Foreign:        0.4,
	Alpha:          0.4,
	Number:         0.4,
	Unknown:        0.3,
	KoreanParticle: 0.2,
}

// BoldRatio returns the share of a token emphasized for the given tag
func BoldRatio(pos PosTag) float64 {
	if ratio, ok := boldRatios[pos]; ok {
		return ratio
	}
	return DefaultBoldRatio
}

// AdvancedBoldLength returns the number of eligible characters to emphasize
// for a token of charCount eligible characters. Every non-punctuation token
// with content gets at least one.
func AdvancedBoldLength(charCount int, pos PosTag) int {
	if charCount == 0 {
		return 0
	}
	n := int(math.Ceil(float64(charCount) * BoldRatio(pos)))
	if n == 0 && pos != Punctuation {
		n = 1
	}
	return n
}

// BoldMorph splits one analyzer token. Non-eligible characters inside a
// punctuation token always stay in the normal part.
func BoldMorph(tok MorphToken) Segment {
	n := CountEligible(tok.Surface)
	if n == 0 {
		// nothing to emphasize, emitted as is
		return plainSegment(tok.Surface)
	}
	bold, normal := partition(tok.Surface, AdvancedBoldLength(n, tok.Pos), tok.Pos != Punctuation)
	return Segment{Bold: bold, Normal: normal}
}

// RenderMorphs renders analyzer tokens joined by single spaces. The original
// spacing of the input is not kept.
func RenderMorphs(tokens []MorphToken) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = BoldMorph(tok).Markup()
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
