package commands

import (
	"io"
	"starquote/internal/history"
	"starquote/internal/quote"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func renderSummary(w io.Writer, report quote.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Premium quotes")
	t.AppendHeader(table.Row{"", "Value"})
	for _, f := range report.Summary() {
		t.AppendRow(table.Row{f.Name, f.Value})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderHistory(w io.Writer, runs []history.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Run", "Time", "Mode", "Subject", "Age"}
	for _, label := range quote.Labels() {
		header = append(header, label)
	}
	t.AppendHeader(header)

	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		row := table.Row{
			id,
			run.CreatedAt.Format(time.DateTime),
			string(run.Kind),
			run.Subject,
			run.QuotedAge,
		}
		for _, label := range quote.Labels() {
			premium, ok := run.Quotes.Get(label)
			if !ok {
				premium = "-"
			}
			row = append(row, premium)
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
