package saber

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jamesainslie/go-saber/metrics"
)

// RenderTable formats t as an ASCII table titled with the partition name.
// Rows are the sorted labels followed by MACRO_AVG and MICRO_AVG; ratios are
// shown as percentages with two decimals.
func RenderTable(title string, t metrics.Table) string {
	tbl := table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers("Label", "Precision", "Recall", "F1", "Support")

	for _, row := range t.Rows() {
		s := t[row]
		tbl.Row(row, percent(s.Precision), percent(s.Recall), percent(s.F1), strconv.Itoa(s.Support))
	}

	body := tbl.String()
	width := lipgloss.Width(body)
	heading := lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.ToUpper(title))
	return heading + "\n" + body + "\n"
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func printTable(w io.Writer, title string, t metrics.Table) error {
	_, err := io.WriteString(w, "\n"+RenderTable(title, t))
	return err
}
