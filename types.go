package bionic

// PosTag is a part-of-speech category assigned by a morphological analyzer.
// Values follow the Open Korean Text (Okt) tag names.
type PosTag string

// Part-of-speech tags
const (
	Noun           PosTag = "Noun"
	Verb           PosTag = "Verb"
	Adjective      PosTag = "Adjective"
	Adverb         PosTag = "Adverb"
	Determiner     PosTag = "Determiner"
	Exclamation    PosTag = "Exclamation"
	Josa           PosTag = "Josa"    // postposition
	Eomi           PosTag = "Eomi"    // verbal ending
	PreEomi        PosTag = "PreEomi" // pre-final ending
	Conjunction    PosTag = "Conjunction"
	Punctuation    PosTag = "Punctuation"
	Foreign        PosTag = "Foreign"
	Alpha          PosTag = "Alpha"
	Number         PosTag = "Number"
	Unknown        PosTag = "Unknown"
	KoreanParticle PosTag = "KoreanParticle"
)

// MorphToken is a single unit produced by morphological analysis. Surface may
// differ from the input text once normalization and stemming are applied.
type MorphToken struct {
	Surface string `json:"surface"`
	Pos     PosTag `json:"pos"`
}

// Mode selects a rendering pipeline
type Mode string

const (
	ModeSimple   Mode = "simple"   // whitespace words, tiered bold length
	ModeAdvanced Mode = "advanced" // analyzer tokens, part-of-speech ratios
	ModeClassic  Mode = "classic"  // digits-only or first half of each word
)

// AnalyzeOptions control the analyzer request
type AnalyzeOptions struct {
	Norm bool // normalize colloquial spelling
	Stem bool // reduce verbs and adjectives to their dictionary form
}

// DefaultAnalyzeOptions enables both normalization and stemming
var DefaultAnalyzeOptions = AnalyzeOptions{Norm: true, Stem: true}

// AnalyzeResult contains the tokens of one analysis call
type AnalyzeResult struct {
	Tokens []MorphToken

	// Metadata
	Engine         string  `json:"engine"`
	ProcessingTime float64 `json:"processing_time_ms"`
}
