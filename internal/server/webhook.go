package server

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/stickerbot/internal/update"
)

// SecretHeader carries the secret token Telegram echoes on every delivery.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// handleWebhook accepts one update. Once the secret checks out the response
// is always 200, whatever happens to the update, so Telegram never retries it.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.logger.WarnContext(r.Context(), "Rejected webhook request with invalid secret token", "remote_addr", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s.process(w, r)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUpdateBytes))
	if err != nil {
		s.logger.WarnContext(r.Context(), "Failed to read update body", "error", err, "limit", s.cfg.Server.MaxUpdateBytes)
		return
	}

	upd, err := update.Parse(body)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Dropping malformed update", "error", err, "bytes", len(body))
		return
	}

	// Handling continues if Telegram drops the connection; only the request
	// timeout bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.cfg.Server.RequestTimeout)
	defer cancel()

	s.dispatch(ctx, upd)
}

func (s *Server) authorized(r *http.Request) bool {
	got := r.Header.Get(SecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Telegram.SecretToken)) == 1
}

// dispatch runs the handler chain and waits for it or for ctx, whichever
// comes first. A panicking handler is logged and contained.
func (s *Server) dispatch(ctx context.Context, upd *models.Update) {
	start := time.Now()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(ctx, "Recovered panic while handling update",
					"update_id", upd.ID,
					"panic", rec,
					"stack", string(debug.Stack()))
			}
		}()
		s.handler(ctx, upd)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "Update handling exceeded request timeout",
			"update_id", upd.ID,
			"timeout", s.cfg.Server.RequestTimeout,
			"elapsed", time.Since(start))
	}
}
