package bernoulli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with bernoulli-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // unreachable
		})),
	}
}

// WithComponent tags log records with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// WithName adds the name of a persisted set.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// LogBuild logs the construction of a filter.
func (l *Logger) LogBuild(keys int, slots uint32, bits int, errorRate float64, took time.Duration, err error) {
	if err != nil {
		l.Error("filter build failed",
			"keys", keys,
			"bits", bits,
			"error", err,
		)
		return
	}
	l.Debug("filter built",
		"keys", keys,
		"slots", slots,
		"bits", bits,
		"error_rate", errorRate,
		"took", took,
	)
}

// LogSave logs a save to a blob store.
func (l *Logger) LogSave(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "saved",
		"name", name,
		"bytes", size,
	)
}

// LogLoad logs a load from a blob store.
func (l *Logger) LogLoad(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "loaded",
		"name", name,
		"bytes", size,
	)
}

// LogBatchLoad logs a parallel load.
func (l *Logger) LogBatchLoad(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch load completed with failures",
			"total", count,
			"failed", failed,
		)
		return
	}
	l.InfoContext(ctx, "batch load completed",
		"count", count,
	)
}
