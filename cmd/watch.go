package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trovehq/trove/internal/app"
	"github.com/trovehq/trove/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <type>",
	Short: "Re-list a type whenever another process writes the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withApp(cmd, func(a *app.App) error {
			printList := func() error {
				recs, err := a.Commander.List(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "-- %s (%d) at %s\n",
					args[0], len(recs), time.Now().Format(time.TimeOnly))
				for _, rec := range recs {
					e := a.Adapter.Universal(args[0], rec)
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-36s %-12s %s\n",
						e.Display.Icon, e.ID, e.Status, e.Title)
				}
				return nil
			}

			if err := printList(); err != nil {
				return err
			}

			w, err := watcher.New(watcher.DefaultConfig(cfg.DBPath))
			if err != nil {
				return err
			}
			changes, err := w.Start()
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changes:
					if err := printList(); err != nil {
						return err
					}
				}
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
