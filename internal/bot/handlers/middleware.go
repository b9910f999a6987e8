// Package handlers contains the update router, the per-route handlers and
// the middleware wrapping them.
package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/stickerbot/internal/update"
)

// HandlerFunc processes one raw update envelope.
type HandlerFunc func(ctx context.Context, upd *models.Update)

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// UpdateHandler processes one decoded update on a selected route.
type UpdateHandler func(ctx context.Context, u update.Update)

// Chain wraps h with middlewares so that the first one listed runs outermost.
func Chain(h HandlerFunc, middlewares ...Middleware) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
