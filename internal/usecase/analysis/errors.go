// Package analysis implements the offer workflow: it asks an ordered list of
// analysis strategies which customers are interested in a product, falling
// back to the next strategy whenever one fails, and turns the first successful
// answer into offers that are persisted before they are announced.
package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors for analysis failures.
var (
	// ErrAnalysisFailed indicates that a strategy could not produce a customer list.
	// Every *AnalysisError matches it, including CannotInterpretInput failures.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrCannotInterpretInput indicates that a strategy does not understand the
	// product it was given (unknown category, missing price, and so on).
	ErrCannotInterpretInput = errors.New("cannot interpret input")
)

// Kind classifies an analysis failure.
type Kind string

const (
	KindAnalysisFailed       Kind = "analysis_failed"
	KindCannotInterpretInput Kind = "cannot_interpret_input"
)

// AnalysisError is the failure signal a strategy returns.
// It is created once by the strategy and never mutated afterwards; the
// Service hands the same value to the FailureHandler.
type AnalysisError struct {
	Strategy  string
	Kind      Kind
	ProductID int64
	Err       error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("strategy %s: %s for product %d", e.Strategy, e.Kind, e.ProductID)
	}
	return fmt.Sprintf("strategy %s: %s for product %d: %v", e.Strategy, e.Kind, e.ProductID, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is matches ErrAnalysisFailed for every kind and ErrCannotInterpretInput for
// the CannotInterpretInput kind.
func (e *AnalysisError) Is(target error) bool {
	switch target {
	case ErrAnalysisFailed:
		return true
	case ErrCannotInterpretInput:
		return e.Kind == KindCannotInterpretInput
	}
	return false
}

// NewAnalysisFailed builds a generic analysis failure.
func NewAnalysisFailed(strategy string, productID int64, err error) *AnalysisError {
	return &AnalysisError{Strategy: strategy, Kind: KindAnalysisFailed, ProductID: productID, Err: err}
}

// NewCannotInterpret builds a CannotInterpretInput failure.
func NewCannotInterpret(strategy string, productID int64, err error) *AnalysisError {
	return &AnalysisError{Strategy: strategy, Kind: KindCannotInterpretInput, ProductID: productID, Err: err}
}

// Describe extracts the strategy name and kind from any strategy error.
// Errors that are not an *AnalysisError are reported as "unknown" and
// KindAnalysisFailed.
func Describe(err error) (strategy string, kind Kind) {
	var aErr *AnalysisError
	if errors.As(err, &aErr) {
		strategy = aErr.Strategy
		kind = aErr.Kind
	}
	if strategy == "" {
		strategy = "unknown"
	}
	if kind == "" {
		kind = KindAnalysisFailed
	}
	return strategy, kind
}
