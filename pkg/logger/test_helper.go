package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// NewTestLogger discards everything.
func NewTestLogger() Logger {
	return Logger{Logger: zerolog.Nop()}
}

// NewBufferedTestLogger writes JSON entries of every level to w, without
// timestamps, so tests can assert on them.
func NewBufferedTestLogger(w io.Writer) Logger {
	return Logger{Logger: zerolog.New(w).Level(zerolog.TraceLevel)}
}
