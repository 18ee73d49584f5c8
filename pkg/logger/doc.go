// Package logger provides structured JSON logging with context extraction
// and optional Sentry reporting.
//
// A ContextExtractor pulls one attribute out of a context on every log call,
// so request-scoped values such as the request id appear on every line
// logged while that request is served:
//
//	requestID := func(ctx context.Context) (slog.Attr, bool) {
//		id, ok := ctx.Value(requestIDKey{}).(string)
//		return slog.String("request_id", id), ok && id != ""
//	}
//	log := logger.New(slog.LevelInfo, requestID)
//	log.InfoContext(ctx, "request served", slog.Int("status", 200))
//
// Attributes known when a request starts are stored once with WithAttrs
// instead:
//
//	ctx = logger.WithAttrs(ctx, slog.String("path", "/api/trial-registration"))
//
// NewWithSentry additionally forwards warnings and errors to Sentry. With an
// empty DSN it behaves like New, so the same code path runs in development.
// Call Flush before the process exits to deliver pending events.
package logger
