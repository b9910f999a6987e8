package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// allowedUpdates limits webhook deliveries to what the router handles.
var allowedUpdates = []string{"message"}

// BotInfo returns the bot's own user record.
func (c *Client) BotInfo(ctx context.Context) (*models.User, error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return nil, scrubToken(fmt.Errorf("failed to get bot info: %w", err), c.cfg.Token)
	}
	return me, nil
}

// RegisterWebhook points the Bot API at the configured endpoint with the
// shared secret.
func (c *Client) RegisterWebhook(ctx context.Context) error {
	ok, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:                c.cfg.WebhookEndpoint(),
		SecretToken:        c.cfg.SecretToken,
		AllowedUpdates:     allowedUpdates,
		DropPendingUpdates: c.cfg.DropPendingUpdates,
	})
	if err != nil {
		return scrubToken(fmt.Errorf("failed to set webhook: %w", err), c.cfg.Token)
	}
	if !ok {
		return fmt.Errorf("telegram rejected webhook registration")
	}

	c.logger.InfoContext(ctx, "Webhook registered", "url", c.RedactedEndpoint(), "drop_pending_updates", c.cfg.DropPendingUpdates)
	return nil
}

// WebhookInfo returns the current webhook status reported by the Bot API.
func (c *Client) WebhookInfo(ctx context.Context) (*models.WebhookInfo, error) {
	info, err := c.bot.GetWebhookInfo(ctx)
	if err != nil {
		return nil, scrubToken(fmt.Errorf("failed to get webhook info: %w", err), c.cfg.Token)
	}
	return info, nil
}

// WebhookMatches reports whether the registered URL is the configured one.
func (c *Client) WebhookMatches(info *models.WebhookInfo) bool {
	return info != nil && info.URL == c.cfg.WebhookEndpoint()
}

// DeleteWebhook removes the webhook registration, keeping pending updates.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	if _, err := c.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		return scrubToken(fmt.Errorf("failed to delete webhook: %w", err), c.cfg.Token)
	}
	c.logger.InfoContext(ctx, "Webhook deleted")
	return nil
}

// SetCommands publishes the command menu shown by Telegram clients.
func (c *Client) SetCommands(ctx context.Context, commands []models.BotCommand) error {
	if _, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		return scrubToken(fmt.Errorf("failed to set bot commands: %w", err), c.cfg.Token)
	}
	return nil
}

// RedactedEndpoint is the webhook URL with the token replaced, for logging.
func (c *Client) RedactedEndpoint() string {
	return Redact(c.cfg.WebhookEndpoint(), c.cfg.Token)
}
