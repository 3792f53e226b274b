package cli

import (
	"wishlist-cli/internal/config"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent requests made from this machine (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.state.RecentActivity(cmd.Context(), limit)
			if err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: activityRows(entries)})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and save client settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config (defaults, file, environment, flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, envelope{Data: app.cfg})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective config to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.ConfigDir
			if dir == "" {
				d, err := config.Dir()
				if err != nil {
					return app.fail(cmd, err)
				}
				dir = d
			}
			if err := config.Save(dir, app.cfg); err != nil {
				return app.fail(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: app.cfg, Message: "Saved"})
		},
	})
	return cmd
}
