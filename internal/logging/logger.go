package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as log.Logger. An unknown
// level falls back to info.
func New(app, level string, jsonOutput bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, app, level, jsonOutput)
}

// NewWithWriter is New writing to w
func NewWithWriter(w io.Writer, app, level string, jsonOutput bool) zerolog.Logger {
	output := w
	if !jsonOutput {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	logger := zerolog.New(output).
		Level(ParseLevel(level)).
		With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
