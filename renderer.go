package bionic

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Renderer runs the rendering pipelines. It holds no per-call state and may
// be shared between goroutines.
type Renderer struct {
	analyzer Analyzer
}

// NewRenderer returns a Renderer using analyzer for advanced mode. A nil
// analyzer makes advanced mode fail with ErrAnalyzerUnavailable.
func NewRenderer(analyzer Analyzer) *Renderer {
	if analyzer == nil {
		analyzer = noAnalyzer{}
	}
	return &Renderer{analyzer: analyzer}
}

// Render dispatches to the pipeline selected by mode
func (r *Renderer) Render(ctx context.Context, mode Mode, text string) (string, error) {
	switch mode {
	case ModeSimple, "":
		return r.Simple(text)
	case ModeAdvanced:
		return r.Advanced(ctx, text)
	case ModeClassic:
		return r.Classic(text)
	}
	return "", fmt.Errorf("unknown mode %q", mode)
}

// Simple renders text in simple mode
func (r *Renderer) Simple(text string) (out string, err error) {
	defer recoverInternal("simple", &err)
	return RenderSimple(text), nil
}

// Classic renders text in classic mode
func (r *Renderer) Classic(text string) (out string, err error) {
	defer recoverInternal("classic", &err)
	return RenderClassic(text), nil
}

// Advanced analyzes text and renders the resulting tokens. Any analyzer
// failure fails the whole call.
func (r *Renderer) Advanced(ctx context.Context, text string) (out string, err error) {
	defer recoverInternal("advanced", &err)
	if text == "" {
		return "", nil
	}

	start := time.Now()
	tokens, err := r.analyzer.Analyze(ctx, text)
	if err != nil {
		Logger.Error().Err(err).Msg("Morphological analysis failed")
		var aerr *AnalyzerError
		if errors.As(err, &aerr) {
			return "", err
		}
		return "", analysisFailed(err)
	}
	Logger.Debug().
		Int("tokens", len(tokens)).
		Dur("took", time.Since(start)).
		Msg("Morphological analysis done")

	return RenderMorphs(tokens), nil
}

func recoverInternal(mode string, err *error) {
	if p := recover(); p != nil {
		Logger.Error().Str("mode", mode).Interface("panic", p).Msg("Rendering panicked")
		*err = fmt.Errorf("%w: %v", ErrInternal, p)
	}
}
