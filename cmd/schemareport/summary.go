package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"schemareport/internal/analyzer"
)

// renderSummary prints one line per report and the overall tally.
func renderSummary(w io.Writer, sum analyzer.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Report", "File", "Status", "Rows", "Time"})

	for _, o := range sum.Outcomes {
		rows, took := "", ""
		if o.Status == analyzer.StatusOK {
			rows = fmt.Sprint(o.Rows)
		}
		if o.Status != analyzer.StatusSkipped {
			took = o.Duration.Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{o.Order, o.Report, o.File, string(o.Status), rows, took})
	}
	t.AppendFooter(table.Row{"", "", "", sum.String()})

	t.Render()
}
