package logging

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const (
	loggerKey    ctxKey = "logger"
	requestIDKey ctxKey = "request_id"
)

// WithLogger stores a request-scoped logger (and its request ID) in ctx.
func WithLogger(ctx context.Context, requestID string, l *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the per-request slog.Logger from a context.
// Falls back to the default logger if none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// RequestID returns the request ID stored by WithLogger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Time logs the duration of an operation on completion. Use as
//
//	defer logging.Time(ctx, "places.nearby")(&err)
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		l := FromContext(ctx)
		dur := time.Since(start)
		if errp != nil && *errp != nil {
			l.Warn("operation failed", "op", op, "duration_ms", dur.Milliseconds(), "error", *errp)
			return
		}
		l.Debug("operation done", "op", op, "duration_ms", dur.Milliseconds())
	}
}
