// Package bench provides offline evaluation utilities: prediction-file
// scoring and checkpoint sweeps.
package bench

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	saber "github.com/jamesainslie/go-saber"
	"github.com/jamesainslie/go-saber/chunk"
)

// ErrMalformedLine indicates a corpus line that cannot be parsed.
var ErrMalformedLine = errors.New("bench: malformed line")

// maxLineSize bounds a single corpus line. Encoded examples can be long.
const maxLineSize = 4 << 20

// Sentence is one CoNLL block with gold and predicted tags per token.
type Sentence struct {
	Tokens []string
	Gold   []string
	Pred   []string
}

// ParseConll reads whitespace-separated columns: the token first, the gold
// tag second to last, the predicted tag last. Blank lines end a sentence;
// comment lines (#) and -DOCSTART- lines are skipped.
func ParseConll(r io.Reader) ([]Sentence, error) {
	var sentences []Sentence
	var cur Sentence
	flush := func() {
		if len(cur.Tokens) > 0 {
			sentences = append(sentences, cur)
		}
		cur = Sentence{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-DOCSTART-") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want at least 3", ErrMalformedLine, lineNo, len(fields))
		}
		cur.Tokens = append(cur.Tokens, fields[0])
		cur.Gold = append(cur.Gold, fields[len(fields)-2])
		cur.Pred = append(cur.Pred, fields[len(fields)-1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	flush()

	return sentences, nil
}

// LoadConll parses a CoNLL prediction file.
func LoadConll(path string) ([]Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }() // Read-only; close error carries no data

	return ParseConll(f)
}

// FlattenTags concatenates the sentences' tags. An outside tag separates
// sentences so no span crosses a sentence boundary.
func FlattenTags(sentences []Sentence) (gold, pred []string) {
	for i, s := range sentences {
		if i > 0 {
			gold = append(gold, chunk.Outside)
			pred = append(pred, chunk.Outside)
		}
		gold = append(gold, s.Gold...)
		pred = append(pred, s.Pred...)
	}
	return gold, pred
}

// Example is one encoded sequence with its gold class indices.
type Example struct {
	InputIDs []int64 `json:"input_ids"`
	Labels   []int   `json:"labels"`
}

// ParseExamples reads one JSON Example per line into a batch. A limit of 0
// reads every line.
func ParseExamples(r io.Reader, limit int) (saber.Batch, error) {
	var b saber.Batch

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ex Example
		if err := json.Unmarshal([]byte(line), &ex); err != nil {
			return saber.Batch{}, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
		}
		if len(ex.InputIDs) != len(ex.Labels) {
			return saber.Batch{}, fmt.Errorf("%w: line %d has %d input ids and %d labels",
				ErrMalformedLine, lineNo, len(ex.InputIDs), len(ex.Labels))
		}
		b.Inputs = append(b.Inputs, ex.InputIDs)
		b.Labels = append(b.Labels, ex.Labels)

		if limit > 0 && len(b.Inputs) == limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return saber.Batch{}, fmt.Errorf("scan examples: %w", err)
	}

	return b, nil
}

// LoadExamples reads an encoded example file.
func LoadExamples(path string, limit int) (saber.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return saber.Batch{}, fmt.Errorf("open examples: %w", err)
	}
	defer func() { _ = f.Close() }() // Read-only; close error carries no data

	return ParseExamples(f, limit)
}
