package documentai

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with library-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogAdd logs an add operation.
func (l *Logger) LogAdd(ctx context.Context, id any, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"id", id,
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"id", id,
			"dimension", dimension,
		)
	}
}

// LogAddBatch logs a batch add operation.
func (l *Logger) LogAddBatch(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch add completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.InfoContext(ctx, "batch add completed",
			"count", count,
		)
	}
}

// LogRank logs a ranking operation.
func (l *Logger) LogRank(ctx context.Context, metric string, candidates, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rank failed",
			"metric", metric,
			"candidates", candidates,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "rank completed",
			"metric", metric,
			"candidates", candidates,
			"matches", matches,
		)
	}
}

// LogRemove logs a remove operation.
func (l *Logger) LogRemove(ctx context.Context, id any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "remove completed",
			"id", id,
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, id any, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"id", id,
		)
	}
}

// LogSnapshot logs a snapshot save operation.
func (l *Logger) LogSnapshot(ctx context.Context, location string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"location", location,
		)
	}
}

// LogRestore logs a snapshot load operation.
func (l *Logger) LogRestore(ctx context.Context, location string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"location", location,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "restore completed",
			"location", location,
			"count", count,
		)
	}
}

// LogCluster logs a clustering operation.
func (l *Logger) LogCluster(ctx context.Context, k, iterations int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "clustering completed",
			"k", k,
			"iterations", iterations,
		)
	}
}
