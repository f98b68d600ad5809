package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// Table maps a label, or one of MacroAvg and MicroAvg, to its Score.
type Table map[string]Score

// Labels returns the entity labels in the table, sorted, without the averages.
func (t Table) Labels() []string {
	labels := make([]string, 0, len(t))
	for label := range t {
		if label == MacroAvg || label == MicroAvg {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Rows returns all keys in display order: sorted labels, then macro, then micro.
func (t Table) Rows() []string {
	rows := t.Labels()
	for _, avg := range []string{MacroAvg, MicroAvg} {
		if _, ok := t[avg]; ok {
			rows = append(rows, avg)
		}
	}
	return rows
}

// Macro returns the macro-average score.
func (t Table) Macro() Score { return t[MacroAvg] }

// Micro returns the micro-average score.
func (t Table) Micro() Score { return t[MicroAvg] }

// String renders the table on one line in Rows order, e.g.
//
//	{DISO: (0.6667, 0.5000, 0.5714, 3), MACRO_AVG: (...), MICRO_AVG: (...)}
func (t Table) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, row := range t.Rows() {
		if i > 0 {
			b.WriteString(", ")
		}
		s := t[row]
		fmt.Fprintf(&b, "%s: (%.4f, %.4f, %.4f, %d)", row, s.Precision, s.Recall, s.F1, s.Support)
	}
	b.WriteByte('}')
	return b.String()
}

// Clone returns a copy of t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
