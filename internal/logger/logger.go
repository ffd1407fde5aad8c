// Package logger builds the application's slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New initializes a slog logger with the given level and format. An
// unknown level falls back to info, an unknown format to text. With a
// nil writer logs go to stderr so command output stays clean.
func New(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl := new(slog.Level)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		*lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
