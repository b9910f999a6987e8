package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/edgard/stickerbot/internal/config"
	"github.com/edgard/stickerbot/internal/convert"
)

// Messenger is the outbound side of the Bot API used by handlers.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data io.Reader) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// HandlerDeps provides dependencies for update handlers.
type HandlerDeps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Messenger   Messenger
	Converter   *convert.Converter
	BotUsername string
}
