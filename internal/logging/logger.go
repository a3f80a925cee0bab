// Package logging sets up the structured diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
)

// Options configures the diagnostic logger.
type Options struct {
	Level  string // "debug", "info", "warn", "error" (defaults to "info")
	Format string // "json" or "text" (defaults to "text")
	File   string // destination while a TUI owns the terminal
	TUI    bool   // true when a full-screen program will draw on the terminal
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
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

// New builds a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Open builds the application logger and installs it as the slog default.
// Diagnostics go to stderr unless a TUI will draw on a stderr terminal, in
// which case they go to opts.File so they do not corrupt the screen.
// The returned close func releases the file, if one was opened.
func Open(opts Options, stderr *os.File) (*slog.Logger, func() error, error) {
	w := io.Writer(stderr)
	closeFn := func() error { return nil }

	if opts.TUI && opts.File != "" && isTTY(stderr) {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: creating directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: opening %s: %w", opts.File, err)
		}
		w = f
		closeFn = f.Close
	}

	logger := New(w, opts.Level, opts.Format)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// isTTY reports whether f is connected to a terminal.
func isTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
