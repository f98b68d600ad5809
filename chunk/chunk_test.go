package chunk

import (
	"reflect"
	"testing"
)

func TestEntities(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []Chunk
	}{
		{
			name: "empty",
			tags: nil,
			want: nil,
		},
		{
			name: "all outside",
			tags: []string{"O", "O", "O"},
			want: nil,
		},
		{
			name: "two spans of one type",
			tags: []string{"B-PRGE", "I-PRGE", "O", "B-PRGE"},
			want: []Chunk{{"PRGE", 0, 2}, {"PRGE", 3, 4}},
		},
		{
			name: "type change breaks span",
			tags: []string{"B-DISO", "I-CHED"},
			want: []Chunk{{"DISO", 0, 1}},
		},
		{
			name: "adjacent begin tags",
			tags: []string{"B-DISO", "B-DISO"},
			want: []Chunk{{"DISO", 0, 1}, {"DISO", 1, 2}},
		},
		{
			name: "trailing open span",
			tags: []string{"O", "B-CHED", "I-CHED", "I-CHED"},
			want: []Chunk{{"CHED", 1, 4}},
		},
		{
			name: "inside without begin is skipped",
			tags: []string{"I-DISO", "I-DISO", "O"},
			want: nil,
		},
		{
			name: "inside of other type after span",
			tags: []string{"B-DISO", "I-DISO", "I-CHED", "I-CHED", "B-CHED"},
			want: []Chunk{{"DISO", 0, 2}, {"CHED", 4, 5}},
		},
		{
			name: "malformed tags tolerated",
			tags: []string{"", "X", "B-LIVB", "garbage", "I-LIVB"},
			want: []Chunk{{"LIVB", 2, 3}},
		},
		{
			name: "hyphenated type keeps last segment",
			tags: []string{"B-GENE-PROTEIN", "I-PROTEIN"},
			want: []Chunk{{"PROTEIN", 0, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Entities(tt.tags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Entities(%q) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestEntities_DoesNotModifyInput(t *testing.T) {
	tags := make([]string, 2, 8)
	tags[0], tags[1] = "B-DISO", "I-DISO"

	_ = Entities(tags)

	if got := tags[:3][2]; got != "" {
		t.Errorf("spare capacity was written: %q", got)
	}
}

func TestEntities_TypeChangeDoesNotStartChunk(t *testing.T) {
	// An inside tag never opens a chunk, so the CHED token after the DISO
	// span is dropped entirely.
	got := Entities([]string{"B-DISO", "I-CHED"})
	for _, c := range got {
		if c.Type == "CHED" {
			t.Errorf("unexpected CHED chunk %v", c)
		}
	}
}

func TestTypes(t *testing.T) {
	chunks := []Chunk{{"PRGE", 0, 1}, {"DISO", 2, 3}, {"PRGE", 4, 6}}

	got := Types(chunks)
	want := []string{"PRGE", "DISO"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestOfType(t *testing.T) {
	chunks := []Chunk{{"PRGE", 0, 1}, {"DISO", 2, 3}, {"PRGE", 0, 1}}

	got := OfType(chunks, "PRGE")
	want := []Chunk{{"PRGE", 0, 1}, {"PRGE", 0, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OfType() = %v, want %v", got, want)
	}
	if OfType(chunks, "CHED") != nil {
		t.Error("expected nil for absent type")
	}
}

func TestChunkLen(t *testing.T) {
	if got := (Chunk{"DISO", 3, 7}).Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
}
