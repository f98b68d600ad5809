package saber

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LabelMap is a fixed bijection between tag strings and class indices.
// The zero value is an empty map.
type LabelMap struct {
	tagToIdx map[string]int
	idxToTag map[int]string
}

// NewLabelMap builds a LabelMap from tag -> index pairs.
// Tags are NFC-normalized. It fails with ErrInvalidLabelMap if a tag is
// empty, if two tags normalize to the same string, or if two tags share an
// index.
func NewLabelMap(tagToIdx map[string]int) (LabelMap, error) {
	m := LabelMap{
		tagToIdx: make(map[string]int, len(tagToIdx)),
		idxToTag: make(map[int]string, len(tagToIdx)),
	}

	// Sorted so the reported conflict is stable.
	tags := make([]string, 0, len(tagToIdx))
	for tag := range tagToIdx {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, raw := range tags {
		idx := tagToIdx[raw]
		tag := norm.NFC.String(strings.TrimSpace(raw))
		if tag == "" {
			return LabelMap{}, fmt.Errorf("%w: empty tag at index %d", ErrInvalidLabelMap, idx)
		}
		if prev, ok := m.tagToIdx[tag]; ok {
			return LabelMap{}, fmt.Errorf("%w: tag %q maps to %d and %d", ErrInvalidLabelMap, tag, prev, idx)
		}
		if prev, ok := m.idxToTag[idx]; ok {
			return LabelMap{}, fmt.Errorf("%w: index %d used by %q and %q", ErrInvalidLabelMap, idx, prev, tag)
		}
		m.tagToIdx[tag] = idx
		m.idxToTag[idx] = tag
	}

	return m, nil
}

// LabelMapFromTags builds a LabelMap where each tag's index is its position.
func LabelMapFromTags(tags []string) (LabelMap, error) {
	pairs := make(map[string]int, len(tags))
	for i, tag := range tags {
		if prev, ok := pairs[tag]; ok {
			return LabelMap{}, fmt.Errorf("%w: tag %q at %d and %d", ErrInvalidLabelMap, tag, prev, i)
		}
		pairs[tag] = i
	}
	return NewLabelMap(pairs)
}

// LoadLabelMap reads a vocabulary file with one tag per line; the tag on
// line n (0-based) gets index n. Blank lines are not allowed.
func LoadLabelMap(path string) (LabelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return LabelMap{}, fmt.Errorf("open label file: %w", err)
	}
	defer func() { _ = f.Close() }() // Read-only; close error carries no data loss

	var tags []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tags = append(tags, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return LabelMap{}, fmt.Errorf("scan label file: %w", err)
	}

	m, err := LabelMapFromTags(tags)
	if err != nil {
		return LabelMap{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Len returns the number of classes.
func (m LabelMap) Len() int {
	return len(m.idxToTag)
}

// Tag returns the tag for class index i.
func (m LabelMap) Tag(i int) (string, bool) {
	tag, ok := m.idxToTag[i]
	return tag, ok
}

// Index returns the class index for tag.
func (m LabelMap) Index(tag string) (int, bool) {
	i, ok := m.tagToIdx[norm.NFC.String(tag)]
	return i, ok
}

// Tags maps class indices to tags. It fails with ErrUnknownIndex on the
// first index that has no tag.
func (m LabelMap) Tags(indices []int) ([]string, error) {
	tags := make([]string, len(indices))
	for pos, i := range indices {
		tag, ok := m.idxToTag[i]
		if !ok {
			return nil, fmt.Errorf("%w: %d at position %d", ErrUnknownIndex, i, pos)
		}
		tags[pos] = tag
	}
	return tags, nil
}

// Indices maps tags to class indices, the inverse of Tags.
func (m LabelMap) Indices(tags []string) ([]int, error) {
	indices := make([]int, len(tags))
	for pos, tag := range tags {
		i, ok := m.Index(tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q at position %d", ErrUnknownTag, tag, pos)
		}
		indices[pos] = i
	}
	return indices, nil
}
