package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := writeFixture(t)
	path := filepath.Join(dir, "saber.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ReportMode != "truncate" {
		t.Errorf("ReportMode = %q, want truncate", cfg.ReportMode)
	}
	if !cfg.JSONReport {
		t.Error("JSONReport = false, want true")
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want DEBUG", cfg.Level())
	}
	if cfg.Inference.PoolSize != 2 {
		t.Errorf("PoolSize = %d, want 2", cfg.Inference.PoolSize)
	}
	if cfg.Inference.PadID == nil || *cfg.Inference.PadID != 0 {
		t.Errorf("PadID = %v, want 0", cfg.Inference.PadID)
	}
	if cfg.Data.Limit != 100 {
		t.Errorf("Data.Limit = %d, want 100", cfg.Data.Limit)
	}
	if want := filepath.Join(dir, "labels.txt"); cfg.Labels != want {
		t.Errorf("Labels = %q, want %q", cfg.Labels, want)
	}
	if want := filepath.Join(dir, "out"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
	if len(cfg.Checkpoints) != 2 || cfg.Checkpoints[1] != filepath.Join(dir, "models", "epoch2.onnx") {
		t.Errorf("Checkpoints = %v", cfg.Checkpoints)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: 1\nlabel_file: labels.txt\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "label_file") {
		t.Errorf("expected error to name the field, got %q", err.Error())
	}
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "repeated config", input: "version: 1\n---\nversion: 1\n"},
		{name: "unrelated keys", input: "version: 1\n---\nanything: else\n"},
		{name: "scalar document", input: "version: 1\n---\nhello\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
				t.Fatalf("expected multiple documents error, got %v", err)
			}
		})
	}
}

func TestParseSingleDocumentWithSeparator(t *testing.T) {
	cfg, err := Parse([]byte("---\nversion: 1\nlabels: labels.txt\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Labels != "labels.txt" {
		t.Errorf("Labels = %q", cfg.Labels)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := Config{
		Labels:      "  labels.txt ",
		ReportMode:  " Truncate",
		Checkpoints: []string{" a.onnx "},
	}
	Normalize(&cfg)

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Labels != "labels.txt" {
		t.Errorf("Labels = %q", cfg.Labels)
	}
	if cfg.ReportMode != "truncate" {
		t.Errorf("ReportMode = %q, want truncate", cfg.ReportMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Checkpoints[0] != "a.onnx" {
		t.Errorf("Checkpoints[0] = %q", cfg.Checkpoints[0])
	}

	empty := Config{}
	Normalize(&empty)
	if empty.ReportMode != "append" {
		t.Errorf("default ReportMode = %q, want append", empty.ReportMode)
	}
}

func TestResolveKeepsAbsolutePaths(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "labels.txt")
	cfg := Config{Labels: abs, OutputDir: "out"}
	Resolve(&cfg, "/srv/saber")

	if cfg.Labels != abs {
		t.Errorf("Labels = %q, want %q", cfg.Labels, abs)
	}
	if cfg.OutputDir != filepath.Join("/srv/saber", "out") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}
