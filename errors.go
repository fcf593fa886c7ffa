package bionic

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputEmpty is returned by ValidateInput for empty or blank text
	ErrInputEmpty = errors.New("text is empty")

	// ErrAnalyzerUnavailable means the analyzer runtime (docker, JDK...) is missing
	ErrAnalyzerUnavailable = errors.New("morphological analyzer unavailable")

	// ErrAnalyzer covers every other analyzer failure
	ErrAnalyzer = errors.New("morphological analysis failed")

	// ErrInternal reports an unexpected fault while rendering
	ErrInternal = errors.New("internal rendering error")
)

// AnalyzerError describes a failed analyzer call. It matches
// ErrAnalyzerUnavailable or ErrAnalyzer with errors.Is depending on
// Unavailable.
type AnalyzerError struct {
	Unavailable bool
	Dependency  string // missing runtime dependency, e.g. "docker" or "JDK"
	Hint        string // remediation for the operator
	Err         error
}

func (e *AnalyzerError) Error() string {
	var b strings.Builder
	if e.Unavailable {
		b.WriteString(ErrAnalyzerUnavailable.Error())
		if e.Dependency != "" {
			fmt.Fprintf(&b, " (missing %s)", e.Dependency)
		}
	} else {
		b.WriteString(ErrAnalyzer.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Hint != "" {
		b.WriteString(". ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}

func (e *AnalyzerError) Is(target error) bool {
	if e.Unavailable {
		return target == ErrAnalyzerUnavailable
	}
	return target == ErrAnalyzer
}

// unavailable builds an AnalyzerError for a missing dependency
func unavailable(dependency, hint string, err error) *AnalyzerError {
	return &AnalyzerError{Unavailable: true, Dependency: dependency, Hint: hint, Err: err}
}

// analysisFailed builds an AnalyzerError for a generic failure
func analysisFailed(err error) *AnalyzerError {
	return &AnalyzerError{Err: err}
}

// ValidateInput rejects text that is empty or only whitespace
func ValidateInput(text string) error {
	if strings.TrimFunc(text, isSeparator) == "" {
		return ErrInputEmpty
	}
	return nil
}
