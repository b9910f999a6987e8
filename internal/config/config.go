// Package config provides configuration loading, validation, and management
// for the sticker bot. Values come from defaults, an optional YAML file, an
// optional .env file and the process environment, in increasing priority.
package config

import (
	"errors"
	"strings"
	"time"
)

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// Config holds all application configuration. It is read-only after Load returns.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"  validate:"required"`
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Logger    LoggerConfig    `mapstructure:"logger"    validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"  validate:"required"`
}

// TelegramConfig holds the Bot API credentials and webhook registration settings.
type TelegramConfig struct {
	Token                   string        `mapstructure:"token"                      validate:"required"`
	WebhookURL              string        `mapstructure:"webhook_url"                validate:"required,url"`
	WebhookPath             string        `mapstructure:"webhook_path"               validate:"required,startswith=/"`
	SecretToken             string        `mapstructure:"secret_token"               validate:"required,max=256,secret_token"`
	DropPendingUpdates      bool          `mapstructure:"drop_pending_updates"`
	DeleteWebhookOnShutdown bool          `mapstructure:"delete_webhook_on_shutdown"`
	APITimeout              time.Duration `mapstructure:"api_timeout"                validate:"min=1s"`
	MaxFileBytes            int64         `mapstructure:"max_file_bytes"             validate:"gt=0"`
	BreakerFailures         uint32        `mapstructure:"breaker_failures"           validate:"min=1"`
	BreakerTimeout          time.Duration `mapstructure:"breaker_timeout"            validate:"min=1s"`
}

// WebhookEndpoint returns the public URL the Bot API should deliver updates to.
func (t TelegramConfig) WebhookEndpoint() string {
	return strings.TrimRight(t.WebhookURL, "/") + t.WebhookPath
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"min=1,max=65535"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  validate:"min=1s"`
	MaxUpdateBytes  int64         `mapstructure:"max_update_bytes" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task. Schedule is a six-field cron
// expression (seconds first).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds every user-facing text the bot sends.
type MessagesConfig struct {
	Start            string `mapstructure:"start"              validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	SendSticker      string `mapstructure:"send_sticker"       validate:"required"`
	UnknownCommand   string `mapstructure:"unknown_command"    validate:"required"`
	AnimatedSticker  string `mapstructure:"animated_sticker"   validate:"required"`
	ConversionFailed string `mapstructure:"conversion_failed"  validate:"required"`
	StartDescription string `mapstructure:"start_description"  validate:"required"`
	HelpDescription  string `mapstructure:"help_description"   validate:"required"`
}
