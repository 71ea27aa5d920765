package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisError_Is(t *testing.T) {
	cause := errors.New("no rule")

	cannot := NewCannotInterpret("rules", 3, cause)
	assert.ErrorIs(t, cannot, ErrCannotInterpretInput)
	assert.ErrorIs(t, cannot, ErrAnalysisFailed, "CannotInterpretInput is a kind of analysis failure")
	assert.ErrorIs(t, cannot, cause)

	failed := NewAnalysisFailed("claude", 3, cause)
	assert.ErrorIs(t, failed, ErrAnalysisFailed)
	assert.NotErrorIs(t, failed, ErrCannotInterpretInput)

	wrapped := fmt.Errorf("outer: %w", cannot)
	assert.ErrorIs(t, wrapped, ErrCannotInterpretInput)
}

func TestAnalysisError_Error(t *testing.T) {
	assert.Equal(t,
		"strategy rules: cannot_interpret_input for product 3: no rule",
		NewCannotInterpret("rules", 3, errors.New("no rule")).Error())
	assert.Equal(t,
		"strategy credit: analysis_failed for product 9",
		NewAnalysisFailed("credit", 9, nil).Error())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStrategy string
		wantKind     Kind
	}{
		{"analysis error", NewCannotInterpret("rules", 1, nil), "rules", KindCannotInterpretInput},
		{"wrapped analysis error", fmt.Errorf("x: %w", NewAnalysisFailed("credit", 1, nil)), "credit", KindAnalysisFailed},
		{"plain error", errors.New("boom"), "unknown", KindAnalysisFailed},
		{"analysis error without strategy", &AnalysisError{Kind: KindCannotInterpretInput}, "unknown", KindCannotInterpretInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, kind := Describe(tt.err)
			assert.Equal(t, tt.wantStrategy, strategy)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}
