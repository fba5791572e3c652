package logger

import (
	"context"
	"log/slog"
)

// context keys
type contextKey struct {
	name string
}

var requestLoggerKey = contextKey{"request_logger"}

// ContextWithRequestLogger stores the request-scoped logger created by the
// RequestLogging middleware so that handlers and downstream middleware can
// log with the request_id attached.
func ContextWithRequestLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, logger)
}

// ContextRequestLogger retrieves the request-scoped logger from context,
// falling back to the default logger when the middleware did not run.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
