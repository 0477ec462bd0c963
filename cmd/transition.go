package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var transitionCmd = &cobra.Command{
	Use:   "transition <type> <id> <event>",
	Short: "Fire a state machine event against a record",
	Example: `  trove transition task 4f1c... START
  trove transition shipment 9a2e... DELIVER`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			res := a.Commander.Transition(cmd.Context(), args[0], args[1], args[2], a.Provenance())
			if err := resultErr(res); err != nil {
				return err
			}
			def, _ := a.Registry.Definition(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %v\n", res.URN, res.Record[def.Status()])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(transitionCmd)
}
