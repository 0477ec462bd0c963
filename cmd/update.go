package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var updateFields []string

var updateCmd = &cobra.Command{
	Use:   "update <type> <id>",
	Short: "Update fields on a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(updateFields)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return fmt.Errorf("no fields given, use -f key=value")
		}
		return withApp(cmd, func(a *app.App) error {
			res := a.Commander.Update(cmd.Context(), args[0], args[1], fields, a.Provenance())
			if err := resultErr(res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URN)
			return nil
		})
	},
}

func init() {
	updateCmd.Flags().StringArrayVarP(&updateFields, "field", "f", nil,
		"field as key=value (repeatable)")
	rootCmd.AddCommand(updateCmd)
}
