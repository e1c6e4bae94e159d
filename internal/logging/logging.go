// Package logging builds the charmbracelet/log loggers used across tada.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       ParseFormatter(format),
		ReportTimestamp: true,
		Prefix:          "tada",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OpenFile returns a logger appending to path, creating parent dirs.
// The TUI owns the terminal, so it logs here instead of stderr.
// An empty path yields a discarding logger and a no-op closer.
func OpenFile(path, level, format string) (*log.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return Discard(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level, format), f, nil
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a formatter name to a log.Formatter, defaulting to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
