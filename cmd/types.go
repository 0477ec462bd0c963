package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered record types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			for _, name := range a.Registry.Types() {
				def, _ := a.Registry.Definition(name)
				machine := "-"
				if def.MachineID != "" {
					machine = def.MachineID
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-16s table=%-16s machine=%s\n",
					a.Registry.Icon(name), name, def.Table, machine)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
