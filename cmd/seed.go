package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
	"github.com/trovehq/trove/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load records from a YAML fixture file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		file, err := seed.Load(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			report, err := seed.Apply(cmd.Context(), a.Commander, file, cfg.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records, %d transitions\n",
				report.Created, report.Transitions)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
