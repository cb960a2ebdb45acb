package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

// New creates a timestamped logger writing to out at level
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// NewFromConfig builds the logger described by cfg. Unknown levels fall
// back to info; config.Load rejects them before this point.
func NewFromConfig(cfg *domain.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.LogFormat == domain.LogFormatJSON {
		return New(os.Stderr, level)
	}

	return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, level)
}
