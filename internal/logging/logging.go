// Package logging builds the charmbracelet logger used across gridloop.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vovakirdan/tui-gridloop/internal/config"
)

// Logger is a configured logger together with whatever it writes to.
type Logger struct {
	*log.Logger
	closer io.Closer
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New creates a logger from cfg. With cfg.File set, output goes to a
// rotating file; otherwise it goes to fallback, which may be nil to
// discard everything (the interactive UI owns the terminal).
func New(cfg config.LoggingConfig, fallback io.Writer) (*Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = io.Discard
	var closer io.Closer
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true, // Use local time in rotated filename
		}
		out, closer = fileWriter, fileWriter
	case fallback != nil:
		out = fallback
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          cfg.Prefix,
		ReportTimestamp: cfg.Timestamps,
	})
	return &Logger{Logger: logger, closer: closer}, nil
}

// Discard returns a logger that drops everything, for tests and callers
// that were not given one.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Stderr returns the default server logger.
func Stderr() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
}
