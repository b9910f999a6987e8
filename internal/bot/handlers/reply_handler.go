package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/stickerbot/internal/update"
)

// NewOtherContentHandler returns the handler for messages that carry
// something other than a sticker.
func NewOtherContentHandler(deps HandlerDeps) UpdateHandler {
	return replyHandler{deps: deps, name: "other", text: deps.Config.Messages.SendSticker}.Handle
}

// NewUnknownCommandHandler returns the handler for unrecognized commands.
func NewUnknownCommandHandler(deps HandlerDeps) UpdateHandler {
	return replyHandler{deps: deps, name: "unknown_command", text: deps.Config.Messages.UnknownCommand}.Handle
}

// replyHandler answers with one fixed text.
type replyHandler struct {
	deps HandlerDeps
	name string
	text string
}

func (h replyHandler) Handle(ctx context.Context, u update.Update) {
	log := h.deps.Logger.With("handler", h.name)
	log.DebugContext(ctx, "Sending fixed reply", "chat_id", u.ChatID, "command", u.Command)

	sendReply(ctx, h.deps, log, u.ChatID, h.text)
}

// sendReply sends text to chatID. Failures are logged and otherwise dropped.
func sendReply(ctx context.Context, deps HandlerDeps, log *slog.Logger, chatID int64, text string) {
	if err := deps.Messenger.SendText(ctx, chatID, text); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		return
	}
	log.DebugContext(ctx, "Successfully sent reply", "chat_id", chatID)
}
