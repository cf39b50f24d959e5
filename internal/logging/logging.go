// Package logging configures the process-wide charmbracelet/log logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel keeps normal command output free of log lines.
const DefaultLevel = log.WarnLevel

// Options holds configuration for the logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:     DefaultLevel,
		Formatter: log.TextFormatter,
		Prefix:    "td",
	}
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// ParseFormatter maps "text", "json" or "logfmt" to a formatter.
func ParseFormatter(value string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q", value)
	}
}

// Setup parses level and format, installs the resulting logger as the
// default, and returns it. Empty values fall back to DefaultOptions.
// Debug level also turns on timestamps.
func Setup(w io.Writer, level, format string) (*log.Logger, error) {
	opts := DefaultOptions()
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		opts.Level = parsed
	}
	formatter, err := ParseFormatter(format)
	if err != nil {
		return nil, err
	}
	opts.Formatter = formatter
	opts.ReportTimestamp = opts.Level <= log.DebugLevel

	logger := New(w, opts)
	log.SetDefault(logger)
	return logger, nil
}
