package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var createFields []string

var createCmd = &cobra.Command{
	Use:   "create <type>",
	Short: "Create a record",
	Example: `  trove create task -f title="Write release notes" -f priority=2
  trove create project -f name="Spring cleaning" -f due_date=2026-04-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(createFields)
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			res := a.Commander.Create(cmd.Context(), args[0], fields, a.Provenance())
			if err := resultErr(res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URN)
			return nil
		})
	},
}

func init() {
	createCmd.Flags().StringArrayVarP(&createFields, "field", "f", nil,
		"field as key=value (repeatable)")
	rootCmd.AddCommand(createCmd)
}
