// Package logging defines a minimal structured-logging interface used across
// the client. Implementations wrap slog or zerolog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "session reloaded", "user_id", id)
type Logger interface {
	// Debug logs diagnostic details.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a Logger writing to w. "console" selects the zerolog console
// writer, "json" the slog JSON handler, anything else the slog text handler.
func New(format string, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	switch format {
	case FormatConsole:
		return NewConsoleLogger(w)
	case FormatJSON:
		return NewJSONLogger(w, slog.LevelInfo)
	default:
		return NewTextLogger(w, slog.LevelInfo)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}
