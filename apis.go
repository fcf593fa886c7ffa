package bionic

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/samber/lo"
)

const jdkHint = "install a Java Development Kit (JDK) and set JAVA_HOME correctly"

// Analyze implements Analyzer using the manager's default options
func (pm *Manager) Analyze(ctx context.Context, text string) ([]MorphToken, error) {
	result, err := pm.AnalyzeWithOptions(ctx, text, pm.analyzeOptions)
	if err != nil {
		return nil, err
	}
	return result.Tokens, nil
}

// AnalyzeWithOptions performs part-of-speech tagging with the given options
func (pm *Manager) AnalyzeWithOptions(ctx context.Context, text string, opts AnalyzeOptions) (*AnalyzeResult, error) {
	if !pm.IsReady() {
		return nil, unavailable("KoNLPy service", "initialize the analyzer before use", errServiceNotReady)
	}

	req := &PosRequest{
		Text: text,
		Norm: opts.Norm,
		Stem: opts.Stem,
	}

	resp, err := pm.client.Pos(ctx, req)
	if err != nil {
		return nil, classifyServiceError(err)
	}

	var processingTime float64
	if v, ok := resp.Metadata["processing_time_ms"].(float64); ok {
		processingTime = v
	}

	engine, _ := resp.Metadata["engine"].(string)

	return &AnalyzeResult{
		Tokens:         resp.Tokens,
		Engine:         engine,
		ProcessingTime: processingTime,
	}, nil
}

// classifyServiceError maps client errors to the analyzer error kinds
func classifyServiceError(err error) error {
	var serr *ServiceError
	if errors.As(err, &serr) && serr.Code == CodeJVMNotFound {
		return unavailable("JDK", jdkHint, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return unavailable("KoNLPy service", "check that the analyzer container is running",
			fmt.Errorf("pos tagging failed: %w", err))
	}
	return analysisFailed(fmt.Errorf("pos tagging failed: %w", err))
}

// GetVersion returns the KoNLPy version
func (pm *Manager) GetVersion(ctx context.Context) (string, error) {
	if !pm.IsReady() {
		return "", errServiceNotReady
	}

	health, err := pm.client.Health(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}

	return health.Version, nil
}

// Utility functions for working with results

// ExtractSurfaces extracts just the surface text from tokens
func ExtractSurfaces(tokens []MorphToken) []string {
	return lo.Map(tokens, func(tok MorphToken, _ int) string {
		return tok.Surface
	})
}
