// Package logger builds the process-wide zerolog instance. Every adapter and
// service receives a child of this logger, so payment and oracle events share
// one JSON stream that log shippers can ingest without per-line sniffing.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the service logger. Structured JSON goes to stdout; pretty
// flips on the human-readable console writer for local runs. Unknown level
// strings degrade to info rather than failing startup.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(levelOrInfo(level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// NewWithWriter targets an arbitrary writer. Tests capture log output this
// way; it skips the caller annotation since the call site is the test itself.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(levelOrInfo(level)).
		With().
		Timestamp().
		Logger()
}

func levelOrInfo(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
