package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

// FromContext returns the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger returns a context carrying logger. Preview, highlight and
// refresh code below it log through FromContext.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithSession attaches a child of logger tagged with the provider and
// working directory of a finder session, and returns both.
func WithSession(ctx context.Context, logger *log.Logger, provider, cwd string) (context.Context, *log.Logger) {
	if logger == nil {
		logger = FromContext(ctx)
	}
	child := logger.With(FieldProvider, provider, FieldWorkingDir, cwd)
	return WithLogger(ctx, child), child
}
