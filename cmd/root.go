package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "warmer",
		Short:         "Keep a fleet of messaging accounts warm with generated small talk",
		Long:          "warmer runs one worker per registered messaging account. During the daily activity window each worker generates a short message and sends it to a random peer account.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "path to a TOML config file (default: <config dir>/warmer/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newAccountsCmd(app),
		newWindowCmd(app),
		newGenerateCmd(app),
		newCredentialsCmd(app),
	)

	return rootCmd
}
