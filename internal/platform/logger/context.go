package logger

import (
	"context"
	"log/slog"
)

// loggerKey is the context key under which a request-scoped logger travels.
type loggerKey struct{}

// WithLogger returns a copy of the context carrying the given logger.
// Middleware attaches a logger enriched with request attributes here so
// lower layers log with the same correlation fields.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in the context, or the process
// default logger when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault returns the logger stored in the context, falling
// back to the provided logger rather than the process default. Stores use
// this so their component-scoped logger survives when the context carries
// nothing.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
