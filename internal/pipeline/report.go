package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"eolgames/internal"
)

func RenderReport(w io.Writer, report BatchReport, verbose bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Console", "Files", "Licensed", "Unreleased", "Special", "Combined", "Warnings", "Duplicates", "Status"})

	for _, c := range report.Consoles {
		status := "ok"
		if !c.OK() {
			status = "FAILED: " + c.Err.Error()
		}
		t.AppendRow(table.Row{
			c.Console,
			len(c.Files),
			len(c.Dataset.Licensed),
			len(c.Dataset.Unreleased),
			len(c.Dataset.Special),
			len(c.Dataset.Combined),
			len(c.Warnings),
			len(c.Duplicates),
			status,
		})
	}

	counts := report.Counts()
	t.AppendFooter(table.Row{
		"total",
		"",
		counts[string(internal.CategoryLicensed)],
		counts[string(internal.CategoryUnreleased)],
		counts[string(internal.CategorySpecial)],
		counts["combined"],
		counts["warnings"],
		counts["duplicates"],
		fmt.Sprintf("%d failed", report.Failed()),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(report.Warnings) > 0 {
		for _, wn := range report.Warnings {
			fmt.Fprintf(w, "skipped %s: %s\n", wn.File, wn.Message)
		}
	}

	if !verbose {
		return
	}
	for _, c := range report.Consoles {
		if len(c.Warnings) == 0 && len(c.Duplicates) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n%s\n", c.Console, strings.Repeat("-", len(c.Console)))
		for _, wn := range c.Warnings {
			fmt.Fprintf(w, "  %s (%s)\n", wn.String(), wn.File)
		}
		for _, d := range c.Duplicates {
			fmt.Fprintf(w, "  [duplicate] %s %q at %v\n", d.Category, d.Title, d.Positions)
		}
	}
}

// RenderTables lists the tables a single document contributed.
func RenderTables(w io.Writer, res DocumentResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Category", "Table", "ID", "Strategy", "Records", "Fields"})
	for _, ts := range res.Tables {
		fields := make([]string, 0, len(ts.Fields))
		for _, f := range ts.Fields {
			fields = append(fields, string(f))
		}
		t.AppendRow(table.Row{ts.Category, ts.Index, ts.ID, ts.Strategy, ts.Records, strings.Join(fields, ", ")})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	for _, wn := range res.Warnings {
		fmt.Fprintln(w, wn.String())
	}
}
