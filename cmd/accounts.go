package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	rosteradapter "github.com/bnema/warmer/internal/adapters/render/roster"
	"github.com/bnema/warmer/internal/application"
	"github.com/bnema/warmer/internal/domain"
)

func newAccountsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the account registry",
	}

	cmd.AddCommand(
		newAccountsListCmd(app),
		newAccountsAddCmd(app),
	)

	return cmd
}

func newAccountsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.repo.List(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := app.rosterRenderer(rosteradapter.Roster{
				Accounts: accounts,
				Window:   app.cfg.Schedule.Window,
				Now:      app.clock.Now(),
			})
			if err != nil {
				return fmt.Errorf("render roster: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newAccountsAddCmd(app *app) *cobra.Command {
	var account domain.Account

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := application.AddAccount(cmd.Context(), app.repo, account); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) to %s\n", account.Label(), account.Address, app.repo.Path())
			return err
		},
	}

	cmd.Flags().StringVar(&account.Name, "name", "", "display name")
	cmd.Flags().StringVar(&account.RoutingHandle, "handle", "", "routing handle used to send as this account")
	cmd.Flags().StringVar(&account.Address, "address", "", "address peers use to reach this account")
	_ = cmd.MarkFlagRequired("handle")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}
