package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/warmer/internal/adapters/monitor"
	"github.com/bnema/warmer/internal/application"
)

func newRunCmd(app *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every account worker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			registry, err := application.LoadRegistry(ctx, app.repo)
			if err != nil {
				return err
			}

			var creds application.Credentials
			if !dryRun {
				creds, err = application.LoadCredentials(ctx, app.secretStore, app.credentialRefs())
				if err != nil {
					return fmt.Errorf("load credentials: %w", err)
				}
			}

			content := application.NewContentService(app.textGenerator(dryRun, creds), app.clock, app.cfg.Generation, app.logger)
			fleet := application.NewFleet(application.FleetConfig{
				Registry:   registry,
				Content:    content,
				Sink:       app.messageSink(dryRun, creds),
				Clock:      app.clock,
				Schedule:   app.cfg.Schedule,
				StartDelay: app.cfg.StartDelay,
				Seed:       app.cfg.Seed,
				Logger:     app.logger,
			})

			app.logger.Info("starting fleet",
				"accounts", registry.Len(),
				"window", app.cfg.Schedule.Window.String(),
				"dry_run", dryRun,
			)

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			g, gctx := errgroup.WithContext(runCtx)
			g.Go(func() error {
				defer cancel()
				return fleet.Run(gctx)
			})
			if listen := app.cfg.MonitorListen; listen != "" {
				server := monitor.NewServer(fleet.Snapshot, app.logger)
				g.Go(func() error {
					return server.Serve(gctx, listen)
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}
			app.logger.Info("fleet stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate text offline and log deliveries instead of sending them")

	return cmd
}
