// Package main contains the entrypoint for the sticker bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/stickerbot/internal/bot"
	"github.com/edgard/stickerbot/internal/bot/handlers"
	"github.com/edgard/stickerbot/internal/bot/tasks"
	"github.com/edgard/stickerbot/internal/config"
	"github.com/edgard/stickerbot/internal/convert"
	"github.com/edgard/stickerbot/internal/logger"
	"github.com/edgard/stickerbot/internal/server"
	"github.com/edgard/stickerbot/internal/telegram"
	"github.com/edgard/stickerbot/internal/update"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, bot API client, router,
// webhook server, scheduler), runs them until shutdown and returns an exit
// code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "", "Path to optional YAML configuration file")
	envFile := flag.String("env-file", ".env", "Path to optional .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	httpClient := &http.Client{Timeout: cfg.Telegram.APITimeout}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, httpClient, log, tgbot.WithSkipGetMe())
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}
	client := telegram.NewClient(tg, httpClient, cfg.Telegram, log)

	me, err := client.BotInfo(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	hDeps := handlers.HandlerDeps{
		Logger:      log,
		Config:      cfg,
		Messenger:   client,
		Converter:   convert.New(),
		BotUsername: me.Username,
	}
	tDeps := tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		Webhook: client,
	}

	registered := handlers.RegisterAllHandlers(hDeps)
	router := handlers.NewRouter(log, update.NewDecoder(me.Username), registered)
	srv := server.New(cfg, log, handlers.Chain(router.Handle, logger.Middleware(log)))

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, client, srv, sched, handlers.BotCommands(registered))

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished.")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
