package commands

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"eolgames/internal/storage"
)

var runsLimit int

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "Number of runs to list.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--limit n]",
	Short: "Lists recorded extraction runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		if err := e.cfg.Require("DB_PATH", e.cfg.DBPath); err != nil {
			return err
		}
		db, err := storage.Open(e.cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(runsLimit)
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Trace", "Started", "Consoles", "Failed", "Games", "Warnings", "Duration"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.ID, r.TraceID, r.CreatedAt,
				r.Counts["consoles"], r.Counts["failed"], r.Counts["combined"], r.Counts["warnings"],
				time.Duration(r.Timings["totalMs"]) * time.Millisecond,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
