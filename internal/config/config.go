// Package config loads the YAML configuration used by the saber command.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Config describes a checkpoint sweep.
type Config struct {
	Version     int             `yaml:"version"`
	Labels      string          `yaml:"labels"`
	OutputDir   string          `yaml:"output_dir"`
	ReportMode  string          `yaml:"report_mode"`
	JSONReport  bool            `yaml:"json_report"`
	LogLevel    string          `yaml:"log_level"`
	Data        DataConfig      `yaml:"data"`
	Inference   InferenceConfig `yaml:"inference"`
	Checkpoints []string        `yaml:"checkpoints"`
}

// DataConfig points at the encoded train and validation subsets.
type DataConfig struct {
	Train string `yaml:"train"`
	Valid string `yaml:"valid"`
	// Limit caps the examples read from each file; 0 reads all.
	Limit int `yaml:"limit"`
}

// InferenceConfig tunes the ONNX classifier.
type InferenceConfig struct {
	PoolSize int    `yaml:"pool_size"`
	PadID    *int64 `yaml:"pad_id"`
}

// Parse decodes a single strict YAML document.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	// Any second document, whatever its keys, is rejected.
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Level returns the configured slog level. Call after Validate.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
