package log

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects how log records are rendered.
type Format string

const (
	// FormatText renders colored, human-readable output for terminals.
	FormatText Format = "text"

	// FormatJSON renders one JSON object per record for log pipelines.
	FormatJSON Format = "json"
)

// New creates a structured logger writing to w.
// Verbose lowers the level to Debug; the default level is Warn so a normal
// crawl stays quiet on stderr while the report goes to stdout.
//
// Design decision: We default to Warn rather than Info because the CLI
// prints progress itself; Info-level crawl chatter would interleave with
// report output and make piping awkward.
func New(w io.Writer, format Format, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	return slog.New(handler)
}
