package bionic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// KagomeAnalyzer is an in-process Analyzer for Japanese text backed by
// kagome and the IPA dictionary. IPA part-of-speech labels are mapped onto
// the PosTag set so the same ratio table applies.
type KagomeAnalyzer struct {
	tok  *tokenizer.Tokenizer
	opts AnalyzeOptions
}

var _ Analyzer = (*KagomeAnalyzer)(nil)

// NewKagomeAnalyzer loads the IPA dictionary. Loading takes a noticeable
// moment, so build one analyzer and share it.
func NewKagomeAnalyzer(opts AnalyzeOptions) (*KagomeAnalyzer, error) {
	start := time.Now()
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, unavailable("kagome IPA dictionary", "", fmt.Errorf("failed to load tokenizer: %w", err))
	}
	Logger.Debug().Dur("took", time.Since(start)).Msg("Kagome tokenizer loaded")
	return &KagomeAnalyzer{tok: t, opts: opts}, nil
}

// Analyze implements Analyzer
func (k *KagomeAnalyzer) Analyze(ctx context.Context, text string) ([]MorphToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, analysisFailed(err)
	}
	if k.opts.Norm {
		text = norm.NFC.String(width.Fold.String(text))
	}

	ktoks := k.tok.Tokenize(text)
	out := make([]MorphToken, 0, len(ktoks))
	for _, kt := range ktoks {
		if strings.TrimFunc(kt.Surface, isSeparator) == "" {
			continue
		}
		pos := kt.POS()
		tag := ipaTag(kt.Surface, pos)
		surface := kt.Surface
		if k.opts.Stem && (tag == Verb || tag == Adjective) {
			if base, ok := kt.BaseForm(); ok && base != "" && base != "*" {
				surface = base
			}
		}
		out = append(out, MorphToken{Surface: surface, Pos: tag})
	}
	return out, nil
}

// ipaTag maps an IPA dictionary part-of-speech to a PosTag
func ipaTag(surface string, pos []string) PosTag {
	if isASCIIWord(surface) {
		return Alpha
	}
	if len(pos) == 0 {
		return Unknown
	}
	sub := ""
	if len(pos) > 1 {
		sub = pos[1]
	}
	switch pos[0] {
	case "名詞":
		if sub == "数" {
			return Number
		}
		return Noun
	case "動詞":
		return Verb
	case "形容詞":
		return Adjective
	case "副詞":
		return Adverb
	case "連体詞":
		return Determiner
	case "感動詞", "フィラー":
		return Exclamation
	case "助詞":
		return Josa
	case "助動詞":
		return Eomi
	case "接続詞":
		return Conjunction
	case "記号":
		if sub == "アルファベット" {
			return Alpha
		}
		return Punctuation
	}
	return Unknown
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
