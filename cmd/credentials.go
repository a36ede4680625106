package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCredentialsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage API credentials",
	}

	cmd.AddCommand(newCredentialsSetCmd(app))

	return cmd
}

func newCredentialsSetCmd(app *app) *cobra.Command {
	var key string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a credential in pass, or in the file store when pass is unavailable",
		Long:  "Store a credential. --key accepts a secret reference or one of the aliases \"openai\" and \"waapi\", which resolve to the configured references.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := app.resolveCredentialKey(key)
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("credential value for %q is empty", ref)
			}

			if err := app.secretStore.Put(cmd.Context(), ref, value); err != nil {
				return fmt.Errorf("store credential %q: %w", ref, err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "secret reference or alias (openai, waapi)")
	cmd.Flags().StringVar(&value, "value", "", "secret value")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func (a *app) resolveCredentialKey(key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "openai":
		return a.cfg.OpenAI.APIKeyRef
	case "waapi":
		return a.cfg.Waapi.TokenRef
	default:
		return strings.TrimSpace(key)
	}
}
