package app

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// newLogger creates and configures a new slog.Logger instance writing to
// standard error, so command output on standard output stays clean. It does
// not set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// With no configured format, interactive sessions get text and
	// redirected ones get json.
	if formatStr == "" {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			formatStr = "text"
		} else {
			formatStr = "json"
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler)
}
