package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	rosteradapter "github.com/bnema/warmer/internal/adapters/render/roster"
)

func newWindowCmd(app *app) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show whether the activity window is open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := app.clock.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				now = parsed
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), rosteradapter.RenderWindow(app.cfg.Schedule.Window, now))
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "evaluate the window at this RFC3339 instant instead of now")

	return cmd
}
