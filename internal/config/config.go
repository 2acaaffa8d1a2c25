package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Chapsvision-dev/rsbctl/internal/poll"
)

type Config struct {
	SubscriptionID string
	Auth           AuthConfig

	// DownloadDir is where mount scripts land when no path argument is given.
	// Empty leaves the choice to the provider.
	DownloadDir string
	// Output is json, yaml or table.
	Output string

	PollInitialInterval time.Duration
	PollMaxInterval     time.Duration
	PollTimeout         time.Duration
}

type AuthConfig struct {
	Method       string // "secret", "managed-identity", "cli" or "default"
	TenantID     string
	ClientID     string // also selects a user-assigned identity for managed-identity
	ClientSecret string // only if Method == secret
}

// Output formats.
const (
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// Load reads config from environment variables and, when path is set,
// a YAML/JSON file. Environment wins over the file. Defaults are applied
// and the result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("RSB_OUTPUT", OutputTable)
	v.SetDefault("POLL_INITIAL_INTERVAL", poll.Default.InitialInterval)
	v.SetDefault("POLL_MAX_INTERVAL", poll.Default.MaxInterval)
	v.SetDefault("POLL_TIMEOUT", poll.Default.Timeout)

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	dur := func(key string, def time.Duration) time.Duration {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
		return def
	}

	auth := AuthConfig{
		Method:       strings.ToLower(strings.TrimSpace(v.GetString("AZURE_AUTH_METHOD"))),
		TenantID:     strings.TrimSpace(v.GetString("AZURE_TENANT_ID")),
		ClientID:     strings.TrimSpace(v.GetString("AZURE_CLIENT_ID")),
		ClientSecret: v.GetString("AZURE_CLIENT_SECRET"),
	}
	if auth.Method == "" {
		if auth.ClientSecret != "" {
			auth.Method = "secret"
		} else {
			auth.Method = "default"
		}
	}

	cfg := Config{
		SubscriptionID: strings.TrimSpace(v.GetString("AZURE_SUBSCRIPTION_ID")),
		Auth:           auth,
		DownloadDir:    strings.TrimSpace(v.GetString("RSB_DOWNLOAD_DIR")),
		Output:         strings.ToLower(strings.TrimSpace(v.GetString("RSB_OUTPUT"))),

		PollInitialInterval: dur("POLL_INITIAL_INTERVAL", poll.Default.InitialInterval),
		PollMaxInterval:     dur("POLL_MAX_INTERVAL", poll.Default.MaxInterval),
		PollTimeout:         dur("POLL_TIMEOUT", poll.Default.Timeout),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate checks auth completeness and output format.
func (c *Config) validate() error {
	switch c.Auth.Method {
	case "secret":
		if c.Auth.TenantID == "" || c.Auth.ClientID == "" || c.Auth.ClientSecret == "" {
			return errors.New("auth method secret requires AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET")
		}
	case "managed-identity", "cli", "default":
	default:
		return errors.New("unsupported auth method: " + c.Auth.Method)
	}

	switch c.Output {
	case OutputJSON, OutputYAML, OutputTable:
	default:
		return errors.New("unsupported output format: " + c.Output)
	}
	return nil
}

// PollOptions converts polling config values to poll.Options.
func (c Config) PollOptions() poll.Options {
	return poll.Options{
		InitialInterval: c.PollInitialInterval,
		MaxInterval:     c.PollMaxInterval,
		Timeout:         c.PollTimeout,
	}
}
