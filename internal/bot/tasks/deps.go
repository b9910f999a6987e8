// Package tasks implements the scheduled maintenance tasks of the sticker bot.
package tasks

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/stickerbot/internal/config"
)

// WebhookManager reads and repairs the bot's webhook registration.
type WebhookManager interface {
	WebhookInfo(ctx context.Context) (*models.WebhookInfo, error)
	WebhookMatches(info *models.WebhookInfo) bool
	RegisterWebhook(ctx context.Context) error
	RedactedEndpoint() string
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Webhook WebhookManager
}
