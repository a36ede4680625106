package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bnema/warmer/internal/application"
	"github.com/bnema/warmer/internal/domain"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "WARMER"
	dotEnvFile = ".env"
	appDirName = "warmer"
)

const DefaultPrompt = `You are a random WhatsApp message generator in Italian.
Write one message of 10 to 25 words that could plausibly pass between two people who know each other.
Write just the message, without quotes and without anything before or after it.
Never use words that WhatsApp may flag as spam.
Pick a random everyday topic and do not reuse the same topic every time.`

type OpenAI struct {
	BaseURL     string
	Timeout     time.Duration
	HTTPRetries int
	APIKeyRef   string
}

type Waapi struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	TokenRef      string
}

type Log struct {
	Level  string
	Format string
}

// Config is the fully resolved runtime configuration.
type Config struct {
	RegistryPath  string
	SecretsDir    string
	Schedule      application.Schedule
	StartDelay    domain.Interval
	Seed          uint64
	Generation    application.GenerationPolicy
	OpenAI        OpenAI
	Waapi         Waapi
	MonitorListen string
	Log           Log
}

// Dir is where the config file, registry and file secrets live by default.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("registry.path", filepath.Join(dir, "accounts.toml"))
	v.SetDefault("secrets.dir", filepath.Join(dir, "secrets"))

	v.SetDefault("window.timezone", "America/Los_Angeles")
	v.SetDefault("window.start", "06:00")
	v.SetDefault("window.end", "23:00")

	v.SetDefault("schedule.round_min", 10*time.Second)
	v.SetDefault("schedule.round_max", 120*time.Second)
	v.SetDefault("schedule.start_delay_min", 60*time.Second)
	v.SetDefault("schedule.start_delay_max", 180*time.Second)
	v.SetDefault("schedule.quiet_heartbeat", application.DefaultQuietHeartbeat)
	v.SetDefault("schedule.align_to_open", true)
	v.SetDefault("schedule.seed", 0)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("generation.max_attempts", application.DefaultMaxAttempts)
	v.SetDefault("generation.max_words", domain.DefaultMaxWords)
	v.SetDefault("generation.prompt", DefaultPrompt)
	v.SetDefault("generation.prompt_file", "")
	v.SetDefault("generation.backoff.kind", string(domain.BackoffFixed))
	v.SetDefault("generation.backoff.base", time.Second)
	v.SetDefault("generation.backoff.max", 30*time.Second)
	v.SetDefault("generation.backoff.jitter", false)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.timeout", 30*time.Second)
	v.SetDefault("openai.http_retries", 2)
	v.SetDefault("openai.api_key_ref", "warmer/openai_api_key")

	v.SetDefault("waapi.base_url", "https://waapi.app/api/v1")
	v.SetDefault("waapi.timeout", 30*time.Second)
	v.SetDefault("waapi.rate_per_second", 1.0)
	v.SetDefault("waapi.burst", 1)
	v.SetDefault("waapi.token_ref", "warmer/waapi_token")

	v.SetDefault("monitor.listen", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load layers defaults, the TOML config file, .env and WARMER_* environment
// variables into v and resolves the result. An explicit path must exist; the
// default config file is optional.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	setDefaults(v, dir)

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	return FromViper(v)
}

// FromViper resolves an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	window, windowErr := parseWindow(v)
	prompt, promptErr := resolvePrompt(v)
	if err := errors.Join(windowErr, promptErr); err != nil {
		return Config{}, err
	}

	cfg := Config{
		RegistryPath: v.GetString("registry.path"),
		SecretsDir:   v.GetString("secrets.dir"),
		Schedule: application.Schedule{
			Window: window,
			RoundInterval: domain.Interval{
				Min: v.GetDuration("schedule.round_min"),
				Max: v.GetDuration("schedule.round_max"),
			},
			QuietHeartbeat: v.GetDuration("schedule.quiet_heartbeat"),
			AlignToOpen:    v.GetBool("schedule.align_to_open"),
		},
		StartDelay: domain.Interval{
			Min: v.GetDuration("schedule.start_delay_min"),
			Max: v.GetDuration("schedule.start_delay_max"),
		},
		Seed: v.GetUint64("schedule.seed"),
		Generation: application.GenerationPolicy{
			Model:       v.GetString("openai.model"),
			Prompt:      prompt,
			MaxAttempts: v.GetInt("generation.max_attempts"),
			MaxWords:    v.GetInt("generation.max_words"),
			Backoff: domain.BackoffPolicy{
				Kind:   domain.BackoffKind(strings.ToLower(v.GetString("generation.backoff.kind"))),
				Base:   v.GetDuration("generation.backoff.base"),
				Max:    v.GetDuration("generation.backoff.max"),
				Jitter: v.GetBool("generation.backoff.jitter"),
			},
		},
		OpenAI: OpenAI{
			BaseURL:     v.GetString("openai.base_url"),
			Timeout:     v.GetDuration("openai.timeout"),
			HTTPRetries: v.GetInt("openai.http_retries"),
			APIKeyRef:   v.GetString("openai.api_key_ref"),
		},
		Waapi: Waapi{
			BaseURL:       v.GetString("waapi.base_url"),
			Timeout:       v.GetDuration("waapi.timeout"),
			RatePerSecond: v.GetFloat64("waapi.rate_per_second"),
			Burst:         v.GetInt("waapi.burst"),
			TokenRef:      v.GetString("waapi.token_ref"),
		},
		MonitorListen: v.GetString("monitor.listen"),
		Log: Log{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.RegistryPath) == "" {
		errs = append(errs, errors.New("registry.path is empty"))
	}
	if err := c.Schedule.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := c.StartDelay.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("schedule start delay: %w", err))
	}
	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("generation: %w", err))
	}
	if c.OpenAI.HTTPRetries < 0 {
		errs = append(errs, fmt.Errorf("openai.http_retries must not be negative, got %d", c.OpenAI.HTTPRetries))
	}
	switch openAIRef, waapiRef := strings.TrimSpace(c.OpenAI.APIKeyRef), strings.TrimSpace(c.Waapi.TokenRef); {
	case openAIRef == "" || waapiRef == "":
		errs = append(errs, errors.New("openai.api_key_ref and waapi.token_ref must both be set"))
	case openAIRef == waapiRef:
		errs = append(errs, fmt.Errorf("openai.api_key_ref and waapi.token_ref must differ, both are %q", openAIRef))
	}
	if c.Waapi.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("waapi.rate_per_second must not be negative, got %v", c.Waapi.RatePerSecond))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported log.level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func parseWindow(v *viper.Viper) (domain.ActivityWindow, error) {
	timezone := v.GetString("window.timezone")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return domain.ActivityWindow{}, fmt.Errorf("%w: timezone %q: %w", domain.ErrInvalidWindow, timezone, err)
	}

	start, startErr := domain.ParseTimeOfDay(v.GetString("window.start"))
	end, endErr := domain.ParseTimeOfDay(v.GetString("window.end"))
	if err := errors.Join(startErr, endErr); err != nil {
		return domain.ActivityWindow{}, err
	}

	return domain.ActivityWindow{Start: start, End: end, Location: loc}, nil
}

func resolvePrompt(v *viper.Viper) (string, error) {
	path := strings.TrimSpace(v.GetString("generation.prompt_file"))
	if path == "" {
		return strings.TrimSpace(v.GetString("generation.prompt")), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read generation.prompt_file: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("generation.prompt_file %s is empty", path)
	}
	return prompt, nil
}
