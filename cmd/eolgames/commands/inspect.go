package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"eolgames/internal/console"
	"eolgames/internal/pipeline"
)

var inspectConsole string

func init() {
	inspectCmd.Flags().StringVar(&inspectConsole, "console", "", "Console slug (default: resolved from the filename).")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.html>",
	Short: "Shows which tables a single page yields, without writing output.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		slug := inspectConsole
		if slug == "" {
			slug = console.Resolve(filepath.Base(args[0]))
		}
		fmt.Printf("%s: console %s\n", args[0], slug)

		res, err := pipeline.ExtractFile(args[0], e.profiles.For(slug))
		pipeline.RenderTables(os.Stdout, res)
		return err
	},
}
