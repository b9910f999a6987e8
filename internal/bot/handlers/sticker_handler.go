package handlers

import (
	"context"
	"time"

	"github.com/edgard/stickerbot/internal/convert"
	"github.com/edgard/stickerbot/internal/update"
)

// NewStickerHandler returns the handler that converts static stickers to
// PNG documents.
func NewStickerHandler(deps HandlerDeps) UpdateHandler {
	return stickerHandler{deps}.Handle
}

type stickerHandler struct {
	deps HandlerDeps
}

func (h stickerHandler) Handle(ctx context.Context, u update.Update) {
	log := h.deps.Logger.With("handler", "sticker")

	st := u.Sticker
	if st == nil {
		log.WarnContext(ctx, "Sticker handler received update without sticker", "update_id", u.UpdateID)
		return
	}
	log = log.With("chat_id", u.ChatID, "file_id", st.FileID, "file_unique_id", st.FileUniqueID)

	if !st.Static() {
		log.InfoContext(ctx, "Rejecting non-static sticker", "is_animated", st.IsAnimated, "is_video", st.IsVideo)
		sendReply(ctx, h.deps, log, u.ChatID, h.deps.Config.Messages.AnimatedSticker)
		return
	}

	startTime := time.Now()
	if err := h.convertAndSend(ctx, u.ChatID, st); err != nil {
		log.ErrorContext(ctx, "Sticker conversion failed",
			"stage", convert.StageOf(err),
			"error", err,
			"duration", time.Since(startTime))

		if ctx.Err() != nil {
			log.WarnContext(ctx, "Request context done, abandoning failure reply", "error", ctx.Err())
			return
		}
		sendReply(ctx, h.deps, log, u.ChatID, h.deps.Config.Messages.ConversionFailed)
		return
	}

	log.InfoContext(ctx, "Sticker converted and sent", "duration", time.Since(startTime))
}

// convertAndSend runs fetch, decode, encode and send in order. Errors carry
// the stage that failed.
func (h stickerHandler) convertAndSend(ctx context.Context, chatID int64, st *update.Sticker) error {
	data, err := h.deps.Messenger.DownloadFile(ctx, st.FileID)
	if err != nil {
		return convert.Failed(convert.StageFetch, err)
	}

	res, err := h.deps.Converter.ToPNG(data, convert.PNGFilename(st.FileUniqueID))
	if err != nil {
		return err
	}
	defer res.Close()

	h.deps.Logger.DebugContext(ctx, "Encoded PNG",
		"source_format", res.SourceFormat,
		"width", res.Width,
		"height", res.Height,
		"bytes", res.Size())

	if err := h.deps.Messenger.SendDocument(ctx, chatID, res.Filename, res.Reader()); err != nil {
		return convert.Failed(convert.StageSend, err)
	}
	return nil
}
