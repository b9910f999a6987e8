package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/stickerbot/internal/update"
)

// Route names the handler selected for an update.
type Route string

const (
	RouteNone           Route = "none"
	RouteStart          Route = "start"
	RouteHelp           Route = "help"
	RouteSticker        Route = "sticker"
	RouteOther          Route = "other"
	RouteUnknownCommand Route = "unknown_command"
)

var routeOrder = []Route{RouteStart, RouteHelp, RouteSticker, RouteOther, RouteUnknownCommand}

// Select picks the route for u. The first matching rule wins: start, help,
// sticker, other content, unknown command. Anything else is RouteNone.
func Select(u update.Update) Route {
	switch {
	case u.ChatID == 0:
		return RouteNone
	case u.Command == "start":
		return RouteStart
	case u.Command == "help":
		return RouteHelp
	case u.Sticker != nil:
		return RouteSticker
	case u.HasOtherContent:
		return RouteOther
	case u.HasCommand():
		return RouteUnknownCommand
	default:
		return RouteNone
	}
}

// Router decodes incoming updates and dispatches each to exactly one handler.
type Router struct {
	logger   *slog.Logger
	decoder  *update.Decoder
	handlers map[Route]RegisteredHandler
}

// NewRouter creates a Router over handlers, normally RegisterAllHandlers(deps).
func NewRouter(logger *slog.Logger, decoder *update.Decoder, handlers map[Route]RegisteredHandler) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:   logger.With("component", "router"),
		decoder:  decoder,
		handlers: handlers,
	}
}

// Handle is the HandlerFunc entry point for a raw update.
func (r *Router) Handle(ctx context.Context, upd *models.Update) {
	r.Route(ctx, r.decoder.Decode(upd))
}

// Route runs the handler selected for u and returns the route taken.
func (r *Router) Route(ctx context.Context, u update.Update) Route {
	route := Select(u)
	if route == RouteNone {
		r.logger.DebugContext(ctx, "No handler for update", "update_id", u.UpdateID, "chat_id", u.ChatID)
		return route
	}

	h, ok := r.handlers[route]
	if !ok || h.Handler == nil {
		r.logger.WarnContext(ctx, "Route has no registered handler", "route", route, "update_id", u.UpdateID)
		return RouteNone
	}

	r.logger.DebugContext(ctx, "Dispatching update", "route", route, "update_id", u.UpdateID, "chat_id", u.ChatID)
	h.Handler(ctx, u)
	return route
}
