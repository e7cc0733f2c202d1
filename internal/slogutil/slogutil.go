package slogutil

import (
	"io"
	"log/slog"
	"strings"
)

// Log formats accepted by New.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// NewLogger creates a logger writing the human-readable line format.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLineHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a logger writing one JSON object per record.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// New picks the handler from a configured format name. Unknown formats
// fall back to the human format.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	if strings.EqualFold(format, FormatJSON) {
		return NewJSONLogger(w, level)
	}
	return NewLogger(w, level)
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewLineHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
