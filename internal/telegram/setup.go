// Package telegram wraps the go-telegram/bot client with the operations the
// sticker bot needs: replies, file downloads and webhook management.
package telegram

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-telegram/bot"
)

// NewTelegramBot creates a Bot API client. The client never polls; updates
// arrive through our own webhook endpoint.
func NewTelegramBot(token string, httpClient *http.Client, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	if httpClient != nil {
		opts = append([]bot.Option{bot.WithHTTPClient(httpClient.Timeout, httpClient)}, opts...)
	}
	opts = append(opts, bot.WithErrorsHandler(func(err error) {
		log.Error("Telegram client error", "error", err)
	}))

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", TokenPrefix(token))
	return b, nil
}

// TokenPrefix returns a log-safe prefix of the bot token.
func TokenPrefix(token string) string {
	const keep = 8
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "..."
}
