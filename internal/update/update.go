// Package update turns Telegram update envelopes into the small, immutable
// view the router works with.
package update

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-telegram/bot/models"
)

// Sticker describes a sticker attachment.
type Sticker struct {
	FileID       string
	FileUniqueID string
	IsAnimated   bool
	IsVideo      bool
	Width        int
	Height       int
	Emoji        string
}

// Static reports whether the sticker is a plain image that can be converted.
func (s Sticker) Static() bool {
	return !s.IsAnimated && !s.IsVideo
}

// Update is one inbound event reduced to what routing needs.
// Command is lower-cased, without the leading slash and the @botname suffix.
type Update struct {
	UpdateID        int64
	MessageID       int
	ChatID          int64
	Command         string
	Sticker         *Sticker
	HasOtherContent bool
}

// HasCommand reports whether the message carried a bot command.
func (u Update) HasCommand() bool {
	return u.Command != ""
}

// Parse decodes a raw webhook body into a Telegram update envelope.
func Parse(data []byte) (*models.Update, error) {
	var upd models.Update
	if err := json.Unmarshal(data, &upd); err != nil {
		return nil, fmt.Errorf("failed to decode update envelope: %w", err)
	}
	return &upd, nil
}

var commandPattern = regexp.MustCompile(`^/([A-Za-z0-9_]{1,64})(?:@([A-Za-z0-9_]+))?(?:\s|$)`)

// Decoder converts envelopes into Updates. When BotUsername is set, commands
// explicitly addressed to another bot (/start@otherbot) are ignored.
type Decoder struct {
	botUsername string
}

// NewDecoder creates a Decoder for the bot with the given username (may be empty).
func NewDecoder(botUsername string) *Decoder {
	return &Decoder{botUsername: strings.TrimPrefix(botUsername, "@")}
}

// Decode builds an Update from the envelope. Only regular messages are
// considered; any other update kind yields an Update with ChatID 0.
func (d *Decoder) Decode(upd *models.Update) Update {
	if upd == nil {
		return Update{}
	}

	u := Update{UpdateID: upd.ID}
	msg := upd.Message
	if msg == nil {
		return u
	}

	u.MessageID = msg.ID
	u.ChatID = msg.Chat.ID

	if msg.Sticker != nil {
		u.Sticker = &Sticker{
			FileID:       msg.Sticker.FileID,
			FileUniqueID: msg.Sticker.FileUniqueID,
			IsAnimated:   msg.Sticker.IsAnimated,
			IsVideo:      msg.Sticker.IsVideo,
			Width:        msg.Sticker.Width,
			Height:       msg.Sticker.Height,
			Emoji:        msg.Sticker.Emoji,
		}
	}

	command, addressedElsewhere, isCommand := d.parseCommand(msg)
	switch {
	case isCommand && addressedElsewhere:
		// Someone else's command in a group; leave every field empty so nothing replies.
	case isCommand:
		u.Command = command
	case msg.Text != "":
		u.HasOtherContent = true
	}

	if len(msg.Photo) > 0 || msg.Video != nil || msg.Audio != nil || msg.Document != nil {
		u.HasOtherContent = true
	}

	return u
}

// parseCommand extracts a leading bot command. Telegram marks commands with a
// bot_command entity at offset 0; a leading slash is accepted as a fallback
// for envelopes built without entities.
func (d *Decoder) parseCommand(msg *models.Message) (command string, addressedElsewhere bool, ok bool) {
	text := msg.Text
	if text == "" {
		return "", false, false
	}

	raw := ""
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 && e.Length > 1 && e.Length <= len(text) {
			raw = text[:e.Length]
			break
		}
	}
	if raw == "" {
		m := commandPattern.FindStringSubmatch(text)
		if m == nil {
			return "", false, false
		}
		raw = strings.TrimSpace(m[0])
	}

	raw = strings.TrimPrefix(raw, "/")
	name, target, hasTarget := strings.Cut(raw, "@")
	if name == "" {
		return "", false, false
	}
	if hasTarget && d.botUsername != "" && !strings.EqualFold(target, d.botUsername) {
		return "", true, true
	}
	return strings.ToLower(name), false, true
}
