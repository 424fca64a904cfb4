// Package logging builds the zerolog logger shared by all commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// Setup returns a logger that writes human-readable lines to console. When
// file is non-empty the raw JSON events are appended there as well. The
// returned closer releases the file and is safe to call unconditionally.
func Setup(level, file string, console io.Writer) (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("parse log level: %w", err)
	}

	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}

	closer := func() {}

	if file != "" {
		f, ferr := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if ferr != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", ferr)
		}

		out = io.MultiWriter(out, f)
		closer = func() { f.Close() }
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()

	return logger, closer, nil
}
