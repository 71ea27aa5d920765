// Package logging builds the process slog.Logger from LOG_LEVEL and
// LOG_FORMAT and carries a request-scoped logger through context.Context.
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logger.With(slog.Int64("product_id", id)))
//	logging.FromContext(ctx).Info("offer persisted")
package logging
