package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"eolgames/internal/dupcheck"
)

var checkFlags struct {
	dir             string
	out             string
	top             int
	includeCombined bool
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkFlags.dir, "dir", "", "Directory of extracted JSON (default $DATABASE_DIR).")
	f.StringVar(&checkFlags.out, "out", "", "Report path (default <dir>/"+dupcheck.ReportFile+").")
	f.IntVar(&checkFlags.top, "top", 20, "Number of repeated games to print.")
	f.BoolVar(&checkFlags.includeCombined, "include-combined", false, "Also analyze <console>_all.json files.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [--dir <dir>]",
	Short: "Reports duplicate records in the extracted JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		dir := orDefault(checkFlags.dir, e.cfg.DatabaseDir)
		res, err := dupcheck.Analyze(dir, dupcheck.Options{IncludeCombined: checkFlags.includeCombined})
		if err != nil {
			return err
		}
		dupcheck.Render(os.Stdout, res, checkFlags.top)

		out := orDefault(checkFlags.out, filepath.Join(dir, dupcheck.ReportFile))
		if err := dupcheck.WriteJSON(out, res); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", out)
		return nil
	},
}
