package offheap

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with offheap-specific context.
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

// WithStructure adds a structure field ("array", "set", "map") to the logger.
func (l *Logger) WithStructure(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("structure", name),
	}
}

// LogGrow logs a capacity change of a backing region.
func (l *Logger) LogGrow(event GrowthEvent, from, to int, err error) {
	if err != nil {
		l.Error("grow failed",
			"event", event.String(),
			"from", from,
			"to", to,
			"error", err,
		)
	} else {
		l.Debug("grow completed",
			"event", event.String(),
			"from", from,
			"to", to,
		)
	}
}

// LogRelease logs the release of a collection's arena.
func (l *Logger) LogRelease(regions int, bytes uint64, err error) {
	if err != nil {
		l.Error("release failed",
			"regions", regions,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.Debug("released",
			"regions", regions,
			"bytes", bytes,
		)
	}
}
