package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/bnema/warmer/internal/application"
	"github.com/bnema/warmer/internal/domain"
)

func newGenerateCmd(app *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one message with the configured prompt and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var creds application.Credentials
			if !dryRun {
				key, err := application.ResolveSecret(cmd.Context(), app.secretStore, app.cfg.OpenAI.APIKeyRef)
				if err != nil {
					return fmt.Errorf("load credentials: %w", err)
				}
				creds.OpenAIKey = key
			}

			content := application.NewContentService(app.textGenerator(dryRun, creds), app.clock, app.cfg.Generation, app.logger)
			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

			message, err := runGenerateProgress(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, observe application.AttemptObserver) (domain.Message, error) {
				return content.GenerateObserved(ctx, rng, observe)
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n(%d words)\n", message, message.WordCount())
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate filler text offline instead of calling the API")

	return cmd
}
