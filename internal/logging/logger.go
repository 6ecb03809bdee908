// Package logging builds the slog loggers used by the command line tools.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger. It writes to stderr so state printed
// on stdout stays machine readable.
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter is New with an explicit destination.
// It standardizes the "error" key to "err".
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// ForVerbosity returns a debug logger when verbose is set and a no-op logger
// otherwise.
func ForVerbosity(verbose bool) *slog.Logger {
	if verbose {
		return New(slog.LevelDebug)
	}
	return NewNop()
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
