package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
)

var activityCmd = &cobra.Command{
	Use:   "activity <id>",
	Short: "Show the audit trail for a record, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			entries, err := a.Commander.Activity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no activity")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %-12s %s\n",
					e.At.Format(time.RFC3339), e.Action, e.Actor, e.Description)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
}
