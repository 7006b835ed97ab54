// Package logger constructs the process-wide structured logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a text slog logger writing to stdout. Level defaults to info;
// set UNIVOTE_LOG_LEVEL=debug for verbose output.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("UNIVOTE_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
