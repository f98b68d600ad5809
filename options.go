package saber

import (
	"io"
	"log/slog"
	"os"
)

// ReportMode controls how an epoch report file is opened.
type ReportMode int

const (
	// ReportAppend appends to an existing report for the same epoch number.
	// Writing the same epoch twice leaves two copies in the file.
	ReportAppend ReportMode = iota

	// ReportTruncate replaces any existing report for the same epoch number.
	ReportTruncate
)

// String returns the mode name used in config files.
func (m ReportMode) String() string {
	switch m {
	case ReportTruncate:
		return "truncate"
	default:
		return "append"
	}
}

// ParseReportMode converts "append" or "truncate" to a ReportMode.
func ParseReportMode(s string) (ReportMode, bool) {
	switch s {
	case "", "append":
		return ReportAppend, true
	case "truncate":
		return ReportTruncate, true
	default:
		return ReportAppend, false
	}
}

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	console    io.Writer
	reportMode ReportMode
	jsonReport bool
}

func defaultConfig() config {
	return config{
		logger:     slog.Default(),
		console:    os.Stdout,
		reportMode: ReportAppend,
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConsole sets where score tables are printed (default: os.Stdout).
// A nil writer disables printing.
func WithConsole(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}
		c.console = w
	}
}

// WithReportMode sets how epoch report files are opened (default: ReportAppend).
func WithReportMode(m ReportMode) Option {
	return func(c *config) {
		c.reportMode = m
	}
}

// WithJSONReport enables an epoch_NNN.json file next to each text report.
func WithJSONReport(enabled bool) Option {
	return func(c *config) {
		c.jsonReport = enabled
	}
}
