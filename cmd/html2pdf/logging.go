package main

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w: debug with verbose, error with
// quiet, warn otherwise. Quiet wins when both are set.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
