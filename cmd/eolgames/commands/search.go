package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"eolgames/internal"
	"eolgames/internal/site"
	"eolgames/internal/storage"
)

var searchFlags struct {
	dir      string
	page     int
	pageSize int
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.dir, "dir", "", "Directory of extracted JSON (default $DATABASE_DIR).")
	f.IntVar(&searchFlags.page, "page", 1, "Result page.")
	f.IntVar(&searchFlags.pageSize, "page-size", site.DefaultPageSize, "Results per page.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <console> [query...]",
	Short: "Searches a console's games the way the site does.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		slug := args[0]
		path := filepath.Join(orDefault(searchFlags.dir, e.cfg.DatabaseDir), slug, slug+storage.CombinedSuffix)
		games, err := storage.ReadRecords(path)
		if err != nil {
			return err
		}

		query := strings.Join(args[1:], " ")
		page, info := site.Paginate(site.Filter(games, query), searchFlags.page, searchFlags.pageSize)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Title", "Developer", "Publisher", "Release", "Category"})
		for i, g := range page {
			t.AppendRow(table.Row{info.Start + i + 1, g.Title(), g[internal.FieldDeveloper], g[internal.FieldPublisher], site.Release(g), g[internal.FieldCategory]})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		fmt.Printf("page %d of %d, %d matches\n", info.Page, info.Pages, info.Total)
		return nil
	},
}
