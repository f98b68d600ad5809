package saber

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLabelMap(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]int
		wantErr bool
	}{
		{
			name:  "bijection",
			input: map[string]int{"O": 0, "B-DISO": 1, "I-DISO": 2},
		},
		{
			name:    "shared index",
			input:   map[string]int{"O": 0, "B-DISO": 0},
			wantErr: true,
		},
		{
			name:    "empty tag",
			input:   map[string]int{"O": 0, " ": 1},
			wantErr: true,
		},
		{
			name: "tags equal after NFC normalization",
			// "é" precomposed vs "e" + combining acute accent
			input:   map[string]int{"B-caf\u00e9": 0, "B-cafe\u0301": 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewLabelMap(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLabelMap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLabelMap) {
					t.Errorf("expected ErrInvalidLabelMap, got %v", err)
				}
				return
			}
			if m.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", m.Len(), len(tt.input))
			}
			for tag, idx := range tt.input {
				got, ok := m.Tag(idx)
				if !ok || got != tag {
					t.Errorf("Tag(%d) = %q, %v, want %q", idx, got, ok, tag)
				}
				back, ok := m.Index(tag)
				if !ok || back != idx {
					t.Errorf("Index(%q) = %d, %v, want %d", tag, back, ok, idx)
				}
			}
		})
	}
}

func TestLabelMapFromTags_Duplicate(t *testing.T) {
	_, err := LabelMapFromTags([]string{"O", "B-DISO", "O"})
	if !errors.Is(err, ErrInvalidLabelMap) {
		t.Errorf("expected ErrInvalidLabelMap, got %v", err)
	}
}

func TestLabelMap_TagsAndIndices(t *testing.T) {
	m := testLabels(t)

	tags, err := m.Tags([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	want := []string{"O", "B-DISO", "I-DISO"}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("Tags()[%d] = %q, want %q", i, tags[i], want[i])
		}
	}

	if _, err := m.Tags([]int{1, 99}); !errors.Is(err, ErrUnknownIndex) {
		t.Errorf("expected ErrUnknownIndex, got %v", err)
	}
	if _, err := m.Indices([]string{"B-NOPE"}); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("expected ErrUnknownTag, got %v", err)
	}
}

func TestLoadLabelMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.txt")
	if err := os.WriteFile(path, []byte("[PAD]\nO\nB-PRGE\nI-PRGE\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadLabelMap(path)
	if err != nil {
		t.Fatalf("LoadLabelMap() error = %v", err)
	}
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}
	if tag, _ := m.Tag(3); tag != "I-PRGE" {
		t.Errorf("Tag(3) = %q, want I-PRGE", tag)
	}
}

func TestLoadLabelMap_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadLabelMap(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}

	blank := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(blank, []byte("O\n\nB-PRGE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLabelMap(blank); !errors.Is(err, ErrInvalidLabelMap) {
		t.Errorf("expected ErrInvalidLabelMap for blank line, got %v", err)
	}
}
