package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"eolgames/internal/site"
	"eolgames/internal/storage"
)

var siteFlags struct {
	in       string
	out      string
	title    string
	pageSize int
}

func init() {
	f := siteCmd.Flags()
	f.StringVar(&siteFlags.in, "in", "", "Directory of extracted JSON (default $DATABASE_DIR).")
	f.StringVar(&siteFlags.out, "out", "", "Site output directory (default $SITE_DIR).")
	f.StringVar(&siteFlags.title, "title", site.DefaultTitle, "Page title.")
	f.IntVar(&siteFlags.pageSize, "page-size", site.DefaultPageSize, "Games per page.")
	rootCmd.AddCommand(siteCmd)
}

var siteCmd = &cobra.Command{
	Use:   "site [--in <dir>] [--out <dir>]",
	Short: "Renders the combined console JSON into a static website.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		data, err := storage.LoadCombined(orDefault(siteFlags.in, e.cfg.DatabaseDir))
		if err != nil {
			return err
		}
		out := orDefault(siteFlags.out, e.cfg.SiteDir)
		summary, err := site.Build(out, data, site.Options{Title: siteFlags.title, PageSize: siteFlags.pageSize})
		if err != nil {
			return err
		}
		fmt.Printf("site written to %s: %d consoles, %s games\n", out, summary.Consoles, humanize.Comma(int64(summary.Games)))
		return nil
	},
}
