package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"eolgames/internal"
	"eolgames/internal/pipeline"
	"eolgames/internal/storage"
)

var exportFlags struct {
	in     string
	out    string
	fromDB bool
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.in, "in", "", "Directory of extracted JSON (default $DATABASE_DIR).")
	f.StringVar(&exportFlags.out, "out", "", "Output xlsx path.")
	f.BoolVar(&exportFlags.fromDB, "from-db", false, "Read games from sqlite instead of JSON.")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export --out <file.xlsx> [--from-db]",
	Short: "Exports every console's combined games to a spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		var data map[string][]internal.GameRecord
		if exportFlags.fromDB {
			if err := e.cfg.Require("DB_PATH", e.cfg.DBPath); err != nil {
				return err
			}
			db, err := storage.Open(e.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()
			data, err = loadFromDB(db)
			if err != nil {
				return err
			}
		} else {
			data, err = storage.LoadCombined(orDefault(exportFlags.in, e.cfg.DatabaseDir))
			if err != nil {
				return err
			}
		}
		if len(data) == 0 {
			return fmt.Errorf("no games to export")
		}

		if err := pipeline.ExportConsolesToXLSX(data, exportFlags.out); err != nil {
			return err
		}
		total := 0
		for _, games := range data {
			total += len(games)
		}
		fmt.Printf("exported %d games from %d consoles to %s\n", total, len(data), exportFlags.out)
		return nil
	},
}

func loadFromDB(db *storage.DB) (map[string][]internal.GameRecord, error) {
	consoles, err := db.ListConsoles()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]internal.GameRecord, len(consoles))
	for _, c := range consoles {
		games, err := db.ListGames(c, "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		out[c] = games
	}
	return out, nil
}
