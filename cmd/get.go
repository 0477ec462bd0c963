package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var getCmd = &cobra.Command{
	Use:   "get <type> <id>",
	Short: "Show a record's universal projection and computed fields",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			view, err := a.View(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"urn":      view.Entity.URN,
				"type":     view.Entity.Type,
				"title":    view.Entity.Title,
				"subtitle": view.Entity.Subtitle,
				"status":   view.Entity.Status,
				"tags":     view.Entity.Tags,
				"display":  view.Entity.Display,
				"fields":   view.Entity.Raw,
				"computed": view.Computed,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
