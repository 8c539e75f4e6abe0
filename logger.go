package distgraph

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with partitioning-specific context. All lines
// carry the local host id so interleaved multi-host logs stay readable.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	}))
}

// WithHost adds the local host id to the logger.
func (l *Logger) WithHost(id uint32) *Logger {
	return &Logger{Logger: l.Logger.With("host", id)}
}

// LogPhase logs the completion of one construction phase.
func (l *Logger) LogPhase(name string, elapsed time.Duration, attrs ...any) {
	args := append([]any{"elapsed", elapsed}, attrs...)
	l.Debug("phase "+name+" done", args...)
}
