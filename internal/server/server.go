// Package server exposes the webhook endpoint Telegram delivers updates to,
// plus a liveness route.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edgard/stickerbot/internal/bot/handlers"
	"github.com/edgard/stickerbot/internal/config"
	"github.com/edgard/stickerbot/internal/telegram"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	writeGrace        = 5 * time.Second
)

// Server serves the webhook endpoint and hands every accepted update to a
// single handler chain.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handler    handlers.HandlerFunc
	httpServer *http.Server
}

// New creates a Server for cfg that dispatches updates to handler.
func New(cfg *config.Config, logger *slog.Logger, handler handlers.HandlerFunc) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger.With("component", "webhook_server"),
		handler: handler,
	}

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout + writeGrace,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	return s
}

// Routes builds the HTTP routes: GET / for liveness and POST on the webhook path.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Ok"))
	})
	r.Post(s.cfg.Telegram.WebhookPath, s.handleWebhook)

	return r
}

// Run listens on the configured port until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.InfoContext(ctx, "Starting webhook server",
		"addr", ln.Addr().String(),
		"path", telegram.Redact(s.cfg.Telegram.WebhookPath, s.cfg.Telegram.Token))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("webhook server stopped unexpectedly")
		}
		return fmt.Errorf("webhook server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received, stopping webhook server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Error during webhook server shutdown", "error", err)
		return fmt.Errorf("failed to shut down webhook server: %w", err)
	}

	s.logger.Info("Webhook server stopped gracefully.")
	return nil
}
