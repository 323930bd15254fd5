// Package logging builds the slog logger shared by the scanner and the commands.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

const (
	// FormatText outputs logs in human-readable text format.
	FormatText = "text"
	// FormatJSON outputs logs in JSON format.
	FormatJSON = "json"
)

// New returns a logger writing to w. Verbose enables debug records, which carry the
// scanner's per-line trace. Unknown formats fall back to text.
func New(w io.Writer, verbose bool, format string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop timestamps.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
