package config

import "time"

// Default values for configuration.
const (
	DefaultPort            = 8443
	DefaultRequestTimeout  = 55 * time.Second // Telegram gives up on a webhook call after ~60s
	DefaultMaxUpdateBytes  = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second

	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxFileBytes    = 10 << 20
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second

	DefaultLogLevel = "info"

	WebhookCheckTask            = "webhook_check"
	DefaultWebhookCheckSchedule = "0 */10 * * * *"
)

// DefaultMessages are the texts used when no MSG_* override is configured.
var DefaultMessages = MessagesConfig{
	Start:            "Hi! I convert stickers to PNG. Just send me any sticker!",
	Help:             "To get started, send me a sticker. I will turn it into a PNG file and send it back to you.",
	SendSticker:      "Please send me a sticker.",
	UnknownCommand:   "Sorry, I don't know that command.",
	AnimatedSticker:  "Sorry, I can't work with animated stickers yet.",
	ConversionFailed: "Something went wrong while converting the sticker. Please try again.",
	StartDescription: "Start the bot",
	HelpDescription:  "How to use the bot",
}

// envBindings maps configuration keys to the environment variables that set them.
var envBindings = map[string]string{
	"telegram.token":                      "TELEGRAM_TOKEN",
	"telegram.webhook_url":                "WEBHOOK_URL",
	"telegram.webhook_path":               "WEBHOOK_PATH",
	"telegram.secret_token":               "SECRET_TOKEN",
	"telegram.drop_pending_updates":       "DROP_PENDING_UPDATES",
	"telegram.delete_webhook_on_shutdown": "DELETE_WEBHOOK_ON_SHUTDOWN",
	"telegram.api_timeout":                "API_TIMEOUT",
	"telegram.max_file_bytes":             "MAX_FILE_BYTES",
	"telegram.breaker_failures":           "BREAKER_FAILURES",
	"telegram.breaker_timeout":            "BREAKER_TIMEOUT",

	"server.port":             "PORT",
	"server.request_timeout":  "REQUEST_TIMEOUT",
	"server.max_update_bytes": "MAX_UPDATE_BYTES",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",

	"logger.level": "LOG_LEVEL",
	"logger.json":  "LOG_JSON",

	"scheduler.tasks.webhook_check.enabled":  "WEBHOOK_CHECK_ENABLED",
	"scheduler.tasks.webhook_check.schedule": "WEBHOOK_CHECK_SCHEDULE",

	"messages.start":             "MSG_START",
	"messages.help":              "MSG_HELP",
	"messages.send_sticker":      "MSG_SEND_STICKER",
	"messages.unknown_command":   "MSG_UNKNOWN_COMMAND",
	"messages.animated_sticker":  "MSG_ANIMATED_STICKER",
	"messages.conversion_failed": "MSG_CONVERSION_FAILED",
	"messages.start_description": "MSG_START_DESCRIPTION",
	"messages.help_description":  "MSG_HELP_DESCRIPTION",
}

var defaults = map[string]any{
	"telegram.drop_pending_updates":       false,
	"telegram.delete_webhook_on_shutdown": false,
	"telegram.api_timeout":                DefaultAPITimeout,
	"telegram.max_file_bytes":             DefaultMaxFileBytes,
	"telegram.breaker_failures":           DefaultBreakerFailures,
	"telegram.breaker_timeout":            DefaultBreakerTimeout,

	"server.port":             DefaultPort,
	"server.request_timeout":  DefaultRequestTimeout,
	"server.max_update_bytes": DefaultMaxUpdateBytes,
	"server.shutdown_timeout": DefaultShutdownTimeout,

	"logger.level": DefaultLogLevel,
	"logger.json":  false,

	"scheduler.tasks.webhook_check.enabled":  true,
	"scheduler.tasks.webhook_check.schedule": DefaultWebhookCheckSchedule,

	"messages.start":             DefaultMessages.Start,
	"messages.help":              DefaultMessages.Help,
	"messages.send_sticker":      DefaultMessages.SendSticker,
	"messages.unknown_command":   DefaultMessages.UnknownCommand,
	"messages.animated_sticker":  DefaultMessages.AnimatedSticker,
	"messages.conversion_failed": DefaultMessages.ConversionFailed,
	"messages.start_description": DefaultMessages.StartDescription,
	"messages.help_description":  DefaultMessages.HelpDescription,
}
