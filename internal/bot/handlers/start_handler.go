package handlers

import (
	"context"

	"github.com/edgard/stickerbot/internal/update"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) UpdateHandler {
	return startHandler{deps}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, u update.Update) {
	log := h.deps.Logger.With("handler", "start")
	log.InfoContext(ctx, "Handling /start command", "chat_id", u.ChatID)

	sendReply(ctx, h.deps, log, u.ChatID, withBotName(h.deps.Config.Messages.Start, h.deps.BotUsername))
}
