package ncdgo

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/ncdgo/block"
)

// Logger wraps slog.Logger with ncdgo-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithCompressor adds a compressor field to the logger.
func (l *Logger) WithCompressor(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("compressor", name),
	}
}

// WithRange adds the bounds of a test index range to the logger.
func (l *Logger) WithRange(start, end int) *Logger {
	return &Logger{
		Logger: l.Logger.With("start", start, "end", end),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogRow logs one distance matrix row.
func (l *Logger) LogRow(ctx context.Context, index int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "row failed",
			"index", index,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "row completed",
		"index", index,
		"elapsed", elapsed,
	)
}

// LogBlock logs the outcome of one persisted block.
func (l *Logger) LogBlock(ctx context.Context, key block.Key, status block.Status, elapsed time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "block failed",
			"block", key.String(),
			"error", err,
		)
	case status == block.StatusWritten:
		l.InfoContext(ctx, "block written",
			"block", key.String(),
			"rows", key.Len(),
			"elapsed", elapsed,
		)
	default:
		l.DebugContext(ctx, "block "+status.String(),
			"block", key.String(),
		)
	}
}

// LogRun logs a completed or failed experiment run over total test items.
func (l *Logger) LogRun(ctx context.Context, accuracy float64, total int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"accuracy", accuracy,
		"test", total,
		"elapsed", elapsed,
	)
}

// LogRecord logs the summary of a block recording run.
func (l *Logger) LogRecord(ctx context.Context, s *block.Summary, err error) {
	if s == nil {
		l.ErrorContext(ctx, "record failed", "error", err)
		return
	}
	attrs := []any{
		"written", len(s.Written),
		"skipped", len(s.Skipped),
		"claimed", len(s.Claimed),
		"failed", len(s.Failed),
	}
	if err != nil {
		l.WarnContext(ctx, "record completed with failures", append(attrs, "error", err)...)
		return
	}
	l.InfoContext(ctx, "record completed", attrs...)
}

// LogScore logs the result of scoring persisted blocks.
func (l *Logger) LogScore(ctx context.Context, s *block.Score, err error) {
	if err != nil {
		l.ErrorContext(ctx, "score failed",
			"error", err,
		)
		return
	}
	if len(s.Missing) > 0 || len(s.Skipped) > 0 {
		l.WarnContext(ctx, "partial score",
			"accuracy", s.Accuracy,
			"total", s.Total,
			"missing", len(s.Missing),
			"skipped", len(s.Skipped),
		)
		return
	}
	l.InfoContext(ctx, "score completed",
		"accuracy", s.Accuracy,
		"total", s.Total,
		"blocks", len(s.Blocks),
	)
}
