package bot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/stickerbot/internal/bot"
	"github.com/edgard/stickerbot/internal/config"
)

type fakeRegistrar struct {
	mu          sync.Mutex
	registered  int
	deleted     int
	commands    []models.BotCommand
	registerErr error
	commandsErr error
}

func (f *fakeRegistrar) RegisterWebhook(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered++
	return f.registerErr
}

func (f *fakeRegistrar) DeleteWebhook(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f.deleted++
	return nil
}

func (f *fakeRegistrar) SetCommands(_ context.Context, commands []models.BotCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = commands
	return f.commandsErr
}

type fakeServer struct {
	started chan struct{}
	err     error
}

func newFakeServer(err error) *fakeServer {
	return &fakeServer{started: make(chan struct{}), err: err}
}

func (f *fakeServer) Run(ctx context.Context) error {
	close(f.started)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func newOrchestrator(t *testing.T, cfg *config.Config, reg *fakeRegistrar, srv *fakeServer) *bot.Bot {
	t.Helper()
	sched, err := bot.NewScheduler(discardLogger(), &cfg.Scheduler, nil)
	require.NoError(t, err)
	commands := []models.BotCommand{{Command: "start", Description: "Start the bot"}}
	return bot.NewBot(discardLogger(), cfg, reg, srv, sched, commands)
}

func testConfig() *config.Config {
	return &config.Config{Telegram: config.TelegramConfig{APITimeout: time.Second}}
}

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Telegram.DeleteWebhookOnShutdown = true
	reg := &fakeRegistrar{commandsErr: errors.New("commands are best effort")}
	srv := newFakeServer(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newOrchestrator(t, cfg, reg, srv).Run(ctx) }()

	select {
	case <-srv.started:
	case <-time.After(2 * time.Second):
		t.Fatal("server was not started")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("orchestrator did not stop")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	assert.Equal(t, 1, reg.registered)
	assert.Equal(t, 1, reg.deleted)
	assert.Len(t, reg.commands, 1)
}

func TestRun_KeepsWebhookByDefault(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistrar{}
	srv := newFakeServer(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, newOrchestrator(t, testConfig(), reg, srv).Run(ctx))
	assert.Zero(t, reg.deleted)
}

func TestRun_RegistrationFailureIsFatal(t *testing.T) {
	t.Parallel()

	registerErr := errors.New("bad webhook: HTTPS url must be provided")
	reg := &fakeRegistrar{registerErr: registerErr}
	srv := newFakeServer(nil)

	err := newOrchestrator(t, testConfig(), reg, srv).Run(context.Background())
	require.ErrorIs(t, err, registerErr)

	select {
	case <-srv.started:
		t.Fatal("server started after failed registration")
	default:
	}
}

func TestRun_ServerFailureStopsOrchestrator(t *testing.T) {
	t.Parallel()

	listenErr := errors.New("address already in use")
	err := newOrchestrator(t, testConfig(), &fakeRegistrar{}, newFakeServer(listenErr)).Run(context.Background())
	require.ErrorIs(t, err, listenErr)
}
