// Package failure provides the production analysis failure handler.
package failure

import (
	"context"
	"errors"
	"log/slog"

	"customer-offers/internal/observability/logging"
	"customer-offers/internal/observability/metrics"
	"customer-offers/internal/usecase/analysis"
)

// LoggingHandler logs every strategy failure and counts it in
// analysis_failures_handled_total. Failures where the strategy simply did not
// understand the product are expected during fallback and logged at info;
// everything else is a warning.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler. A nil logger means the logger
// carried by the context, or slog.Default.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle implements analysis.FailureHandler.
func (h *LoggingHandler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	strategy, kind := analysis.Describe(err)
	metrics.RecordFailureHandled(strategy, string(kind))

	logger := h.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger = logging.WithRequestID(ctx, logger)

	attrs := []any{
		slog.String("strategy", strategy),
		slog.String("kind", string(kind)),
		slog.Any("error", err),
	}
	var aErr *analysis.AnalysisError
	if errors.As(err, &aErr) {
		attrs = append(attrs, slog.Int64("product_id", aErr.ProductID))
	}

	if kind == analysis.KindCannotInterpretInput {
		logger.InfoContext(ctx, "analysis strategy could not interpret product", attrs...)
		return
	}
	logger.WarnContext(ctx, "analysis strategy failed", attrs...)
}
