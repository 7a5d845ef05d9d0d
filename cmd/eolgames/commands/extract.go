package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eolgames/internal/pipeline"
)

var extractFlags struct {
	html string
	out  string
	noDB bool
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractFlags.html, "html", "", "Directory of saved Wikipedia pages (default $HTML_DIR).")
	f.StringVar(&extractFlags.out, "out", "", "Output directory for console JSON (default $DATABASE_DIR).")
	f.BoolVar(&extractFlags.noDB, "no-db", false, "Do not record the run in sqlite.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [--html <dir>] [--out <dir>]",
	Short: "Extracts game tables from every HTML file into per-console JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		htmlDir := orDefault(extractFlags.html, e.cfg.HTMLDir)
		outDir := orDefault(extractFlags.out, e.cfg.DatabaseDir)
		if err := e.cfg.Require("HTML_DIR", htmlDir); err != nil {
			return err
		}

		if extractFlags.noDB {
			e.cfg.DBPath = ""
		}
		db, err := e.openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		if db != nil {
			defer db.Close()
		}

		svc := pipeline.NewProcessingService(db, e.cfg, e.profiles, e.logger)
		report, err := svc.Run(cmd.Context(), htmlDir, outDir)
		if len(report.Consoles) > 0 {
			pipeline.RenderReport(os.Stdout, report, e.cfg.Verbose)
		}
		if err != nil {
			return err
		}
		if n := report.Failed(); n > 0 {
			e.logger.Warn("extraction finished with failures", zap.Int("failed", n))
			return fmt.Errorf("%d of %d consoles failed", n, len(report.Consoles))
		}
		return nil
	},
}
