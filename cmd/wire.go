package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/warmer/internal/adapters/httpclient"
	"github.com/bnema/warmer/internal/adapters/logsink"
	"github.com/bnema/warmer/internal/adapters/lorem"
	"github.com/bnema/warmer/internal/adapters/openai"
	rosteradapter "github.com/bnema/warmer/internal/adapters/render/roster"
	tomlrepo "github.com/bnema/warmer/internal/adapters/repo/toml"
	chainstore "github.com/bnema/warmer/internal/adapters/secrets/chain"
	"github.com/bnema/warmer/internal/adapters/waapi"
	"github.com/bnema/warmer/internal/application"
	"github.com/bnema/warmer/internal/config"
	"github.com/bnema/warmer/internal/logging"
	"github.com/bnema/warmer/internal/ports"
)

const (
	openAIKeyEnv  = "OPENAI_API_KEY"
	waapiTokenEnv = "WAAPI_TOKEN"
)

type app struct {
	configPath     string
	cfg            config.Config
	logger         *slog.Logger
	repo           *tomlrepo.Repository
	secretStore    ports.SecretStore
	clock          ports.Clock
	rosterRenderer func(rosteradapter.Roster) (string, error)
}

func (a *app) wire(cmd *cobra.Command) error {
	cfg, err := config.Load(viper.New(), a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}
	slog.SetDefault(logger)

	repoConfig := viper.New()
	repoConfig.Set(tomlrepo.RegistryPathKey, cfg.RegistryPath)
	repo, err := tomlrepo.NewRepository(repoConfig)
	if err != nil {
		return fmt.Errorf("wire account repository: %w", err)
	}

	secretStore, err := chainstore.NewDefault(map[string]string{
		cfg.OpenAI.APIKeyRef: openAIKeyEnv,
		cfg.Waapi.TokenRef:   waapiTokenEnv,
	}, cfg.SecretsDir)
	if err != nil {
		return fmt.Errorf("wire secret store chain: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.repo = repo
	a.secretStore = secretStore
	a.clock = ports.SystemClock{}
	a.rosterRenderer = rosteradapter.Render
	return nil
}

func (a *app) credentialRefs() application.CredentialRefs {
	return application.CredentialRefs{OpenAIKey: a.cfg.OpenAI.APIKeyRef, WaapiToken: a.cfg.Waapi.TokenRef}
}

func (a *app) textGenerator(dryRun bool, creds application.Credentials) ports.TextGenerator {
	if dryRun {
		return lorem.NewGenerator(time.Now().UnixNano())
	}

	return openai.Generator{
		BaseURL: a.cfg.OpenAI.BaseURL,
		APIKey:  creds.OpenAIKey,
		HTTPClient: httpclient.New(a.cfg.OpenAI.Timeout,
			httpclient.WithMaxRetries(a.cfg.OpenAI.HTTPRetries),
			httpclient.WithLogger(a.logger.With("subsystem", "openai")),
		),
		RequestTimeout: a.cfg.OpenAI.Timeout,
	}
}

// messageSink never retries at the HTTP layer: a retried send could deliver
// the same message twice.
func (a *app) messageSink(dryRun bool, creds application.Credentials) ports.MessageSink {
	if dryRun {
		return logsink.NewSink(a.logger)
	}

	return &waapi.Sink{
		BaseURL: a.cfg.Waapi.BaseURL,
		Token:   creds.WaapiToken,
		HTTPClient: httpclient.New(a.cfg.Waapi.Timeout,
			httpclient.WithMaxRetries(0),
			httpclient.WithLogger(a.logger.With("subsystem", "waapi")),
		),
		RequestTimeout: a.cfg.Waapi.Timeout,
		RatePerSecond:  a.cfg.Waapi.RatePerSecond,
		Burst:          a.cfg.Waapi.Burst,
	}
}
