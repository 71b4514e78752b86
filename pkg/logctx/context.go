// Package logctx stores the run's go-kit logger in a context.Context so the
// command and the packages it drives share one logger and its fields.
package logctx

import (
	"context"
	"os"

	"github.com/go-kit/log"
)

type contextKey int

const (
	loggerKey contextKey = iota
)

var (
	defaultLogger = log.NewLogfmtLogger(os.Stderr)
)

func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func Logger(ctx context.Context) log.Logger {
	if logger, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return logger
	}
	return defaultLogger
}

// WithInput tags the context logger with the object file being processed.
func WithInput(ctx context.Context, path string) context.Context {
	return WithLogger(ctx, log.With(Logger(ctx), "input", path))
}
