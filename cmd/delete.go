package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <type> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			res := a.Commander.Delete(cmd.Context(), args[0], args[1], a.Provenance())
			if err := resultErr(res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", res.URN)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
