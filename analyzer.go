package bionic

import "context"

// Analyzer segments text into part-of-speech tagged tokens with normalization
// and stemming applied. Implementations must be safe for concurrent use and
// return *AnalyzerError on failure.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]MorphToken, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface
type AnalyzerFunc func(ctx context.Context, text string) ([]MorphToken, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, text string) ([]MorphToken, error) {
	return f(ctx, text)
}

// noAnalyzer is used when no backend is configured
type noAnalyzer struct{}

func (noAnalyzer) Analyze(context.Context, string) ([]MorphToken, error) {
	return nil, unavailable("analyzer backend", "configure a morphological analyzer backend", nil)
}
