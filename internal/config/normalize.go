package config

import (
	"path/filepath"
	"strings"
)

// Normalize trims values and fills defaults.
func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	cfg.Labels = strings.TrimSpace(cfg.Labels)
	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	cfg.ReportMode = strings.ToLower(strings.TrimSpace(cfg.ReportMode))
	if cfg.ReportMode == "" {
		cfg.ReportMode = "append"
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.Data.Train = strings.TrimSpace(cfg.Data.Train)
	cfg.Data.Valid = strings.TrimSpace(cfg.Data.Valid)
	for i := range cfg.Checkpoints {
		cfg.Checkpoints[i] = strings.TrimSpace(cfg.Checkpoints[i])
	}
}

// Resolve makes relative paths absolute against baseDir.
func Resolve(cfg *Config, baseDir string) {
	cfg.Labels = resolvePath(baseDir, cfg.Labels)
	cfg.OutputDir = resolvePath(baseDir, cfg.OutputDir)
	cfg.Data.Train = resolvePath(baseDir, cfg.Data.Train)
	cfg.Data.Valid = resolvePath(baseDir, cfg.Data.Valid)
	for i, checkpoint := range cfg.Checkpoints {
		cfg.Checkpoints[i] = resolvePath(baseDir, checkpoint)
	}
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if baseDir == "" {
		baseDir = "."
	}
	return filepath.Join(baseDir, path)
}
