package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds the configuration in this order:
//  1. Built-in defaults
//  2. configPath (YAML), when non-empty and present
//  3. envFile (dotenv), when non-empty and present; never overrides real env vars
//  4. Process environment (TELEGRAM_TOKEN, WEBHOOK_URL, PORT, ...)
//
// Derived values (random secret token, token-based webhook path) are filled in
// before validation. Every returned error wraps ErrConfiguration.
func Load(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to load env file %s: %v", ErrConfiguration, envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, configPath, err)
			}
			slog.Debug("Config file not found, using environment only", "path", configPath)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	applyDerived(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// applyDerived fills values that depend on other settings.
func applyDerived(cfg *Config) {
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Telegram.WebhookURL = strings.TrimSpace(cfg.Telegram.WebhookURL)

	if cfg.Telegram.SecretToken == "" {
		cfg.Telegram.SecretToken = NewSecretToken()
		slog.Info("SECRET_TOKEN not set, generated a random webhook secret")
	}
	if cfg.Telegram.WebhookPath == "" && cfg.Telegram.Token != "" {
		cfg.Telegram.WebhookPath = "/" + cfg.Telegram.Token
	}
}

// NewSecretToken returns a random value usable as a Telegram webhook secret
// (1-256 characters of A-Z, a-z, 0-9, _ and -).
func NewSecretToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
