// Package bot wires the webhook server, the scheduler and the webhook
// registration into one lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/stickerbot/internal/config"
)

// WebhookRegistrar manages the bot's registration with the Bot API.
type WebhookRegistrar interface {
	RegisterWebhook(ctx context.Context) error
	DeleteWebhook(ctx context.Context) error
	SetCommands(ctx context.Context, commands []models.BotCommand) error
}

// Runner is a component that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	webhook   WebhookRegistrar
	server    Runner
	scheduler *Scheduler
	commands  []models.BotCommand
}

// NewBot creates the orchestrator. commands is published as the bot's
// command menu at startup.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	webhook WebhookRegistrar,
	server Runner,
	scheduler *Scheduler,
	commands []models.BotCommand,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		webhook:   webhook,
		server:    server,
		scheduler: scheduler,
		commands:  commands,
	}
}

// Run registers the webhook, then runs the webhook server and the scheduler
// until ctx is cancelled or one of them fails. A failed registration is
// returned before anything starts listening.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if err := b.webhook.RegisterWebhook(ctx); err != nil {
		b.logger.Error("Failed to register webhook", "error", err)
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	if len(b.commands) > 0 {
		if err := b.webhook.SetCommands(ctx, b.commands); err != nil {
			b.logger.Warn("Failed to publish bot commands", "error", err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting webhook server...")
		if err := b.server.Run(gCtx); err != nil {
			return fmt.Errorf("webhook server: %w", err)
		}
		b.logger.Info("Webhook server stopped.")
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(gCtx); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}

		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	b.cleanup(ctx)

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

func (b *Bot) cleanup(ctx context.Context) {
	if !b.cfg.Telegram.DeleteWebhookOnShutdown {
		return
	}

	deleteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.Telegram.APITimeout)
	defer cancel()

	if err := b.webhook.DeleteWebhook(deleteCtx); err != nil {
		b.logger.Error("Failed to delete webhook on shutdown", "error", err)
	}
}
