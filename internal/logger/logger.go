// Package logger constructs the slog loggers used by the paperdex commands.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger tagged with the service name. The level is
// read from the LOG_LEVEL environment variable and defaults to info.
func New(service string) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
