package poseseq

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with search-specific context.
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
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithStage adds a stage (pose index) field to the logger.
func (l *Logger) WithStage(stage int) *Logger {
	return &Logger{
		Logger: l.Logger.With("stage", stage),
	}
}

// WithPoses adds the number of query poses to the logger.
func (l *Logger) WithPoses(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("poses", n),
	}
}

// LogSearch logs a search operation. Use WithPoses to attach the query size.
func (l *Logger) LogSearch(ctx context.Context, frames, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"frames", frames,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"frames", frames,
			"matches", matches,
		)
	}
}

// LogStage logs the candidate generation of a stage logger from WithStage.
func (l *Logger) LogStage(ctx context.Context, candidates, spans int) {
	l.DebugContext(ctx, "stage generated",
		"candidates", candidates,
		"spans", spans,
	)
}

// LogFrameSkipped logs a frame that could not be scored.
func (l *Logger) LogFrameSkipped(ctx context.Context, frame int, err error) {
	l.DebugContext(ctx, "frame skipped",
		"frame", frame,
		"error", err,
	)
}
