// Package metrics scores predicted entity chunks against gold chunks.
package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/jamesainslie/go-saber/chunk"
)

// Keys of the synthetic rows added to every Table.
const (
	MacroAvg = "MACRO_AVG"
	MicroAvg = "MICRO_AVG"
)

// ErrEmptyGold indicates there are no gold chunks to average over.
var ErrEmptyGold = errors.New("metrics: no gold chunks to score")

// ErrReservedLabel indicates a gold entity type named like an average row.
var ErrReservedLabel = errors.New("metrics: entity type collides with an average row")

// Counts holds exact-match chunk counts for one label.
type Counts struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		TruePositives:  c.TruePositives + o.TruePositives,
		FalsePositives: c.FalsePositives + o.FalsePositives,
		FalseNegatives: c.FalseNegatives + o.FalseNegatives,
	}
}

// Score derives precision, recall, F1 and support from the counts.
// Ratios with a zero denominator are 0.
func (c Counts) Score() Score {
	tp, fp, fn := c.TruePositives, c.FalsePositives, c.FalseNegatives

	s := Score{Support: tp + fn}
	if tp+fp > 0 {
		s.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		s.Recall = float64(tp) / float64(tp+fn)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

// Score holds evaluation results for one label.
type Score struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int // gold chunks, TP+FN
}

// Count compares the predicted chunks of a single label against its gold chunks.
//
// Membership is exact-match on (type, start, end). Predictions are not
// deduplicated: a predicted chunk listed twice that is present in gold
// counts as two true positives.
func Count(gold, pred []chunk.Chunk) Counts {
	var c Counts

	for _, g := range gold {
		if !contains(pred, g) {
			c.FalseNegatives++
		}
	}

	for _, p := range pred {
		if contains(gold, p) {
			c.TruePositives++
		} else {
			c.FalsePositives++
		}
	}

	return c
}

// Evaluate scores pred against gold for every entity type present in gold
// and adds macro and micro averages.
//
// Types that only appear in pred get no row of their own, but their chunks
// are false positives in the micro average. The macro support is the total
// gold support across labels. A gold type named MacroAvg or MicroAvg
// returns ErrReservedLabel.
func Evaluate(gold, pred []chunk.Chunk) (Table, error) {
	labels := chunk.Types(gold)
	if len(labels) == 0 {
		return nil, ErrEmptyGold
	}
	for _, label := range labels {
		if label == MacroAvg || label == MicroAvg {
			return nil, fmt.Errorf("%w: %s", ErrReservedLabel, label)
		}
	}

	table := make(Table, len(labels)+2)
	var total Counts
	precisions := make([]float64, 0, len(labels))
	recalls := make([]float64, 0, len(labels))
	f1s := make([]float64, 0, len(labels))

	for _, label := range labels {
		c := Count(chunk.OfType(gold, label), chunk.OfType(pred, label))
		s := c.Score()
		table[label] = s
		total = total.Add(c)

		precisions = append(precisions, s.Precision)
		recalls = append(recalls, s.Recall)
		f1s = append(f1s, s.F1)
	}

	support := total.TruePositives + total.FalseNegatives

	for _, p := range pred {
		if _, scored := table[p.Type]; !scored {
			total.FalsePositives++
		}
	}

	table[MacroAvg] = Score{
		Precision: stat.Mean(precisions, nil),
		Recall:    stat.Mean(recalls, nil),
		F1:        stat.Mean(f1s, nil),
		Support:   support,
	}
	table[MicroAvg] = total.Score()

	return table, nil
}

func contains(chunks []chunk.Chunk, c chunk.Chunk) bool {
	for _, x := range chunks {
		if x == c {
			return true
		}
	}
	return false
}
