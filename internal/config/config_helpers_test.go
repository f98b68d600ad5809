package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFixture creates the files a valid config references and returns the
// directory holding them.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"labels.txt":         "[PAD]\nO\nB-DISO\nI-DISO\n",
		"data/train.jsonl":   `{"input_ids":[101,7,102],"labels":[0,2,0]}` + "\n",
		"data/valid.jsonl":   `{"input_ids":[101,8,102],"labels":[0,2,0]}` + "\n",
		"models/epoch1.onnx": "onnx",
		"models/epoch2.onnx": "onnx",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func validConfig() Config {
	return Config{
		Version:     1,
		Labels:      "labels.txt",
		OutputDir:   "out",
		ReportMode:  "append",
		LogLevel:    "info",
		Data:        DataConfig{Train: "data/train.jsonl", Valid: "data/valid.jsonl"},
		Checkpoints: []string{"models/epoch1.onnx", "models/epoch2.onnx"},
	}
}

const validYAML = `version: 1
labels: labels.txt
output_dir: out
report_mode: truncate
json_report: true
log_level: debug
data:
  train: data/train.jsonl
  valid: data/valid.jsonl
  limit: 100
inference:
  pool_size: 2
  pad_id: 0
checkpoints:
  - models/epoch1.onnx
  - models/epoch2.onnx
`
