package saber

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Predictor produces per-token class scores for a batch of encoded examples.
// It returns one sequence_length x num_classes matrix per input example.
type Predictor interface {
	Predict(ctx context.Context, inputs [][]int64) ([]*mat.Dense, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, inputs [][]int64) ([]*mat.Dense, error)

// Predict calls f(ctx, inputs).
func (f PredictorFunc) Predict(ctx context.Context, inputs [][]int64) ([]*mat.Dense, error) {
	return f(ctx, inputs)
}

// Batch is a fixed set of encoded examples with index-encoded gold labels.
// Labels[i] holds one class index per token of Inputs[i].
type Batch struct {
	Inputs [][]int64
	Labels [][]int
}

// OneHotLabels converts one-hot (or score) encoded gold labels, one
// sequence_length x num_classes matrix per example, to class indices.
func OneHotLabels(y []*mat.Dense) [][]int {
	labels := make([][]int, len(y))
	for i, m := range y {
		labels[i] = argmaxRows(m)
	}
	return labels
}

// flattenLabels concatenates per-example label sequences.
func flattenLabels(labels [][]int) []int {
	n := 0
	for _, l := range labels {
		n += len(l)
	}
	flat := make([]int, 0, n)
	for _, l := range labels {
		flat = append(flat, l...)
	}
	return flat
}

// flattenScores takes the argmax class of every row of every matrix.
func flattenScores(scores []*mat.Dense) []int {
	var flat []int
	for _, m := range scores {
		flat = append(flat, argmaxRows(m)...)
	}
	return flat
}

func argmaxRows(m *mat.Dense) []int {
	if m == nil || m.IsEmpty() {
		return nil
	}
	rows, _ := m.Dims()
	out := make([]int, rows)
	for r := 0; r < rows; r++ {
		out[r] = floats.MaxIdx(m.RawRowView(r))
	}
	return out
}

// predictIndices runs the predictor on b and returns flattened gold and
// predicted class indices of equal length.
func predictIndices(ctx context.Context, p Predictor, b Batch) (gold, pred []int, err error) {
	scores, err := p.Predict(ctx, b.Inputs)
	if err != nil {
		return nil, nil, fmt.Errorf("predict: %w", err)
	}

	gold = flattenLabels(b.Labels)
	pred = flattenScores(scores)
	if len(gold) != len(pred) {
		return nil, nil, fmt.Errorf("%w: gold %d, predicted %d", ErrShapeMismatch, len(gold), len(pred))
	}
	return gold, pred, nil
}
