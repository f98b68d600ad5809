package saber

import "github.com/jamesainslie/go-saber/metrics"

// History is an append-only sequence of score tables, one per epoch.
// Index 0 is the first epoch.
type History struct {
	tables []metrics.Table
}

// Len returns the number of recorded epochs.
func (h History) Len() int {
	return len(h.tables)
}

// At returns a copy of the table recorded for 0-based epoch i.
func (h History) At(i int) metrics.Table {
	return h.tables[i].Clone()
}

// Tables returns copies of all recorded tables in epoch order.
func (h History) Tables() []metrics.Table {
	out := make([]metrics.Table, len(h.tables))
	for i, t := range h.tables {
		out[i] = t.Clone()
	}
	return out
}

// Best returns the 0-based epoch whose avg row (metrics.MacroAvg or
// metrics.MicroAvg) has the highest F1. Ties go to the earliest epoch.
// It returns -1 for an empty history.
func (h History) Best(avg string) int {
	best := -1
	bestF1 := 0.0
	for i, t := range h.tables {
		f1 := t[avg].F1
		if best < 0 || f1 > bestF1 {
			best, bestF1 = i, f1
		}
	}
	return best
}

func (h *History) append(t metrics.Table) {
	h.tables = append(h.tables, t.Clone())
}

func (h History) clone() History {
	return History{tables: h.Tables()}
}
