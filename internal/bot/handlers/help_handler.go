package handlers

import (
	"context"
	"strings"

	"github.com/edgard/stickerbot/internal/update"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) UpdateHandler {
	return helpHandler{deps}.Handle
}

// helpHandler processes the /help command using injected dependencies.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, u update.Update) {
	log := h.deps.Logger.With("handler", "help")
	log.InfoContext(ctx, "Handling /help command", "chat_id", u.ChatID)

	sendReply(ctx, h.deps, log, u.ChatID, withBotName(h.deps.Config.Messages.Help, h.deps.BotUsername))
}

// withBotName substitutes the @botname placeholder in configured texts.
func withBotName(text, username string) string {
	if username == "" {
		return text
	}
	return strings.ReplaceAll(text, "@botname", "@"+username)
}
