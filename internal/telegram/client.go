package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sony/gobreaker/v2"

	"github.com/edgard/stickerbot/internal/config"
)

var (
	// ErrFileTooLarge is returned when a file exceeds the configured download limit.
	ErrFileTooLarge = errors.New("file exceeds download size limit")
	// ErrEmptyFile is returned when the Bot API serves a file with no content.
	ErrEmptyFile = errors.New("received empty file data")

	// errDownloadRejected marks a 4xx answer from the file download endpoint.
	errDownloadRejected = errors.New("file download rejected")
)

// Client performs outbound Bot API calls. All calls go through a circuit
// breaker so a failing upstream is not hammered by every incoming update.
type Client struct {
	bot        *bot.Bot
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[any]
	cfg        config.TelegramConfig
	logger     *slog.Logger
}

// NewClient wraps b. httpClient is used for file downloads; nil selects a
// client with cfg.APITimeout.
func NewClient(b *bot.Bot, httpClient *http.Client, cfg config.TelegramConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.APITimeout}
	}
	log := logger.With("component", "telegram_client")

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "telegram-bot-api",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		bot:        b,
		httpClient: httpClient,
		breaker:    breaker,
		cfg:        cfg,
		logger:     log,
	}
}

// SendText sends a plain text message to chatID.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return c.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	})
	if err != nil {
		return scrubToken(fmt.Errorf("failed to send message to chat %d: %w", chatID, err), c.cfg.Token)
	}
	return nil
}

// SendDocument uploads data as a document named filename to chatID.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data io.Reader) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return c.bot.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileUpload{Filename: filename, Data: data},
		})
	})
	if err != nil {
		return scrubToken(fmt.Errorf("failed to send document %s to chat %d: %w", filename, chatID, err), c.cfg.Token)
	}
	return nil
}

// DownloadFile resolves fileID with getFile and downloads its content,
// refusing anything larger than the configured limit.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("empty fileID provided for download")
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled before file download: %w", ctx.Err())
	}

	data, err := c.breaker.Execute(func() (any, error) {
		return c.download(ctx, fileID)
	})
	if err != nil {
		return nil, scrubToken(err, c.cfg.Token)
	}
	return data.([]byte), nil
}

func (c *Client) download(ctx context.Context, fileID string) (data []byte, err error) {
	start := time.Now()

	fileObj, err := c.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from Telegram: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, fmt.Errorf("empty file path returned from Telegram for file ID %s", fileID)
	}
	if fileObj.FileSize > c.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, fileObj.FileSize, c.cfg.MaxFileBytes)
	}

	// The link embeds the bot token; it is never logged and errors are scrubbed.
	link := c.bot.FileDownloadLink(fileObj)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request for %s: %w", fileObj.FilePath, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileObj.FilePath, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body for %s: %w", fileObj.FilePath, closeErr)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status code %d downloading %s", errDownloadRejected, resp.StatusCode, fileObj.FilePath)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d downloading %s", resp.StatusCode, fileObj.FilePath)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data for %s: %w", fileObj.FilePath, err)
	}
	if int64(len(data)) > c.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, c.cfg.MaxFileBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, fileObj.FilePath)
	}

	c.logger.DebugContext(ctx, "Downloaded file", "file_path", fileObj.FilePath, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}

// isBreakerSuccess reports whether err leaves the breaker closed. Only server
// errors and transport failures count against the Bot API. A 4xx answer
// (blocked by the user, chat not found, file too big, rate limited) concerns
// one chat or request, as does a cancelled or expired request context.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}

	var tooMany *bot.TooManyRequestsError
	switch {
	case errors.As(err, &tooMany),
		errors.Is(err, bot.ErrorTooManyRequests),
		errors.Is(err, bot.ErrorForbidden),
		errors.Is(err, bot.ErrorBadRequest),
		errors.Is(err, bot.ErrorNotFound),
		errors.Is(err, errDownloadRejected),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrEmptyFile),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}
