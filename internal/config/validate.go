package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	saber "github.com/jamesainslie/go-saber"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a normalized config and the files it references.
func Validate(cfg *Config, baseDir string) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}
	requireFile := func(field, path string) {
		if path == "" {
			add(field, "is required")
			return
		}
		info, err := os.Stat(resolvePath(baseDir, path))
		if err != nil {
			add(field, fmt.Sprintf("file not found at %q", path))
			return
		}
		if info.IsDir() {
			add(field, fmt.Sprintf("path %q is a directory", path))
		}
	}

	if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	requireFile("labels", cfg.Labels)
	requireFile("data.train", cfg.Data.Train)
	requireFile("data.valid", cfg.Data.Valid)

	if cfg.OutputDir == "" {
		add("output_dir", "is required")
	}
	if _, ok := saber.ParseReportMode(cfg.ReportMode); !ok {
		add("report_mode", fmt.Sprintf("unsupported mode %q", cfg.ReportMode))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		add("log_level", fmt.Sprintf("unsupported level %q", cfg.LogLevel))
	}
	if cfg.Data.Limit < 0 {
		add("data.limit", "must be >= 0")
	}
	if cfg.Inference.PoolSize < 0 {
		add("inference.pool_size", "must be >= 0")
	}

	if len(cfg.Checkpoints) == 0 {
		add("checkpoints", "at least one checkpoint is required")
	}
	seen := map[string]struct{}{}
	for i, checkpoint := range cfg.Checkpoints {
		field := fmt.Sprintf("checkpoints[%d]", i)
		if _, exists := seen[checkpoint]; exists && checkpoint != "" {
			add(field, fmt.Sprintf("duplicate checkpoint %q", checkpoint))
			continue
		}
		seen[checkpoint] = struct{}{}
		requireFile(field, checkpoint)
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
