// Package chlog is the ambient logging setup shared by the decoder
// library's CLI consumer: one zerolog logger, console-pretty in a
// terminal and plain JSON otherwise.
package chlog

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds a logger writing to w at the given level. When w is a
// terminal, output is rendered through zerolog's human-readable console
// writer; otherwise it stays newline-delimited JSON, suitable for piping.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Default is the package-level logger used by cmd/chbr-dump; tests and
// library code never touch it, since native/ takes no logger dependency of
// its own.
var Default = New(os.Stderr, zerolog.InfoLevel)
