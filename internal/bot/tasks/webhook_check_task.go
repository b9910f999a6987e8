package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/stickerbot/internal/config"
	"github.com/edgard/stickerbot/internal/telegram"
)

// newWebhookCheckTask creates the task that compares the webhook Telegram has
// on record with the configured one and re-registers it when they differ.
func newWebhookCheckTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.WebhookCheckTask)
	token := deps.Config.Telegram.Token

	return func(ctx context.Context) error {
		startTime := time.Now()

		info, err := deps.Webhook.WebhookInfo(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to fetch webhook info", "error", err)
			return fmt.Errorf("webhook check failed: %w", err)
		}

		if info.LastErrorMessage != "" {
			log.WarnContext(ctx, "Telegram reported a webhook delivery error",
				"last_error_message", info.LastErrorMessage,
				"last_error_date", time.Unix(int64(info.LastErrorDate), 0).UTC(),
				"pending_update_count", info.PendingUpdateCount)
		}

		if deps.Webhook.WebhookMatches(info) {
			log.InfoContext(ctx, "Webhook registration is current",
				"pending_update_count", info.PendingUpdateCount,
				"duration", time.Since(startTime))
			return nil
		}

		log.WarnContext(ctx, "Webhook registration differs from configuration, re-registering",
			"registered_url", telegram.Redact(info.URL, token),
			"expected_url", deps.Webhook.RedactedEndpoint())

		if err := deps.Webhook.RegisterWebhook(ctx); err != nil {
			log.ErrorContext(ctx, "Failed to re-register webhook", "error", err)
			return fmt.Errorf("failed to re-register webhook: %w", err)
		}

		log.InfoContext(ctx, "Webhook re-registered", "duration", time.Since(startTime))
		return nil
	}
}
