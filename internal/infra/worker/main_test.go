package worker

import (
	"io"
	"log/slog"
)

// Worker metrics are registered with the default registry, so tests share
// one instance and assert on deltas.
var testMetrics = NewWorkerMetrics()

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
