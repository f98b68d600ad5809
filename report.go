package saber

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jamesainslie/go-saber/metrics"
)

// ReportName returns the report file name for a 0-based epoch, e.g. epoch_001.txt.
func ReportName(epoch int) string {
	return fmt.Sprintf("epoch_%03d.txt", epoch+1)
}

// jsonReportName returns the JSON report file name for a 0-based epoch.
func jsonReportName(epoch int) string {
	return strings.TrimSuffix(ReportName(epoch), ".txt") + ".json"
}

// renderReport formats the report for 0-based epoch of valid: the epoch's
// table followed by the best epochs by macro and micro F1.
func renderReport(valid *History, epoch int) string {
	bestMacro := valid.Best(metrics.MacroAvg)
	bestMicro := valid.Best(metrics.MicroAvg)

	var b strings.Builder
	b.WriteString(valid.tables[epoch].String())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Best performing epoch based on macro average: %d\n", bestMacro+1)
	b.WriteString(valid.tables[bestMacro].String())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Best performing epoch based on micro average: %d\n", bestMicro+1)
	b.WriteString(valid.tables[bestMicro].String())
	b.WriteByte('\n')
	return b.String()
}

// writeReport writes the text report for 0-based epoch into dir and returns its path.
func writeReport(dir string, mode ReportMode, valid *History, epoch int) (path string, err error) {
	path = filepath.Join(dir, ReportName(epoch))

	flags := os.O_CREATE | os.O_WRONLY
	if mode == ReportTruncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return "", fmt.Errorf("open report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close report: %w", cerr))
		}
	}()

	if _, err := f.WriteString(renderReport(valid, epoch)); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// writeJSONReport writes the machine-readable report for 0-based epoch.
// JSON documents cannot be appended to, so the file is always replaced.
func writeJSONReport(dir string, valid *History, epoch int) (string, error) {
	bestMacro := valid.Best(metrics.MacroAvg)
	bestMicro := valid.Best(metrics.MicroAvg)

	doc, err := structpb.NewStruct(map[string]any{
		"epoch":            epoch + 1,
		"valid":            tableFields(valid.tables[epoch]),
		"best_macro_epoch": bestMacro + 1,
		"best_macro":       tableFields(valid.tables[bestMacro]),
		"best_micro_epoch": bestMicro + 1,
		"best_micro":       tableFields(valid.tables[bestMicro]),
	})
	if err != nil {
		return "", fmt.Errorf("build json report: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal json report: %w", err)
	}

	path := filepath.Join(dir, jsonReportName(epoch))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}
	return path, nil
}

func tableFields(t metrics.Table) map[string]any {
	fields := make(map[string]any, len(t))
	for label, s := range t {
		fields[label] = map[string]any{
			"precision": s.Precision,
			"recall":    s.Recall,
			"f1":        s.F1,
			"support":   s.Support,
		}
	}
	return fields
}
