package logger

import (
	"context"
	"log/slog"
	"os"
)

// HandlerOptions configures the log handler.
type HandlerOptions struct {
	Level slog.Level
}

// NewHandler creates a JSON slog handler writing to stdout.
// A nil opts uses LevelInfo.
func NewHandler(opts *HandlerOptions) slog.Handler {
	level := slog.LevelInfo
	if opts != nil {
		level = opts.Level
	}

	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
}

type ctxKey struct{}

// WithRequestID returns a context carrying the request id for log enrichment.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID extracts the request id previously stored with WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)

	return id
}
