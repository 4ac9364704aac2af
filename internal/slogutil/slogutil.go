// Package slogutil builds the slog loggers used by the CLI. The engine
// itself never logs; all logging happens at the command layer.
package slogutil

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger creates a logger that drops everything. Used in
// tests and when output must stay machine-parseable.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a config string to a slog.Level. Unknown
// strings mean info.
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

// LevelFromVerbosity converts CLI verbosity flags to a slog.Level:
// quiet suppresses everything, 0 is warn, 1 is info, 2+ is debug.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return slog.Level(100)
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
