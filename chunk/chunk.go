// Package chunk groups per-token BIO tags into typed entity spans.
package chunk

import "strings"

// Outside is the tag for tokens that are not part of any entity.
const Outside = "O"

// Chunk is a contiguous run of tokens labeled as one entity of a single type.
// End is exclusive.
type Chunk struct {
	Type  string
	Start int
	End   int
}

// Len returns the number of tokens covered by the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Entities returns the chunks found in tags.
//
// A chunk starts at any tag beginning with "B" and extends over the following
// tags that begin with "I" and carry the same entity type. An "I" tag whose
// type differs from the open chunk closes it and is itself skipped. Tags that
// do not fit the scheme are treated like outside tags.
//
//	Entities([]string{"B-PRGE", "I-PRGE", "O", "B-PRGE"})
//	// [{PRGE 0 2} {PRGE 3 4}]
func Entities(tags []string) []Chunk {
	if len(tags) == 0 {
		return nil
	}

	// Sentinel closes a span left open at the end of the sequence.
	seq := make([]string, len(tags)+1)
	copy(seq, tags)
	seq[len(tags)] = Outside

	types := make([]string, len(seq))
	for i, tag := range seq {
		types[i] = typeOf(tag)
	}

	var chunks []Chunk
	i := 0
	for i < len(seq) {
		if !strings.HasPrefix(seq[i], "B") {
			i++
			continue
		}

		j := i + 1
		for j < len(seq) && strings.HasPrefix(seq[j], "I") && types[j] == types[i] {
			j++
		}
		chunks = append(chunks, Chunk{Type: types[i], Start: i, End: j})
		i = j
	}

	return chunks
}

// Types returns the distinct chunk types in order of first appearance.
func Types(chunks []Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var types []string
	for _, c := range chunks {
		if _, ok := seen[c.Type]; ok {
			continue
		}
		seen[c.Type] = struct{}{}
		types = append(types, c.Type)
	}
	return types
}

// OfType returns the chunks whose type equals typ, preserving order and duplicates.
func OfType(chunks []Chunk, typ string) []Chunk {
	var out []Chunk
	for _, c := range chunks {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// typeOf returns the entity type of a tag: everything after the last '-'.
func typeOf(tag string) string {
	if i := strings.LastIndexByte(tag, '-'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
