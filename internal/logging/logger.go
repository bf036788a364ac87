// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at level. format "json" emits JSON
// lines; anything else is human-readable console output.
func New(format, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stderr, format, level)
}

func NewWithWriter(out io.Writer, format, level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse logging.level=%q: %w", level, err)
	}

	writer := out
	if !strings.EqualFold(strings.TrimSpace(format), "json") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "tlumacz").
		Logger()

	return logger, nil
}
