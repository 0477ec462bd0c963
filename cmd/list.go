package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
	"github.com/trovehq/trove/internal/storage"
)

var (
	listField string
	listValue string
)

var listCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List records of a type",
	Example: `  trove list task
  trove list task --field status --value in_progress`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (listField == "") != (listValue == "") {
			return fmt.Errorf("--field and --value must be used together")
		}
		return withApp(cmd, func(a *app.App) error {
			var recs []storage.Record
			var err error
			if listField != "" {
				def, ok := a.Registry.Definition(args[0])
				if !ok {
					return fmt.Errorf("unknown entity type %q", args[0])
				}
				recs, err = a.Store.QueryByIndex(cmd.Context(), def.Table, listField, parseValue(listValue))
			} else {
				recs, err = a.Commander.List(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			for _, rec := range recs {
				e := a.Adapter.Universal(args[0], rec)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-36s %-12s %s\n",
					e.Display.Icon, e.ID, e.Status, e.Title)
			}
			return nil
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listField, "field", "", "filter field name")
	listCmd.Flags().StringVar(&listValue, "value", "", "filter field value")
	rootCmd.AddCommand(listCmd)
}
