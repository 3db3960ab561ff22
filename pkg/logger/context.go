package logger

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// With stores a logger enriched with fields in ctx.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, From(ctx).With(fields...))
}

// WithUser tags every later log line of the request with the caller.
func WithUser(ctx context.Context, userID int64, username string) context.Context {
	return With(ctx, "user_id", userID, "username", username)
}

// From returns the request logger, or the process logger when ctx has none.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}
