package telegram_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/stickerbot/internal/config"
	"github.com/edgard/stickerbot/internal/telegram"
)

const testToken = "123456:TEST-token"

type apiCall struct {
	method   string
	form     map[string]string
	filename string
	file     []byte
}

// fakeAPI emulates the parts of the Bot API the client uses.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []apiCall
	downloads int

	fileSize    int64
	fileBody    []byte
	fileStatus  int
	failMethods map[string]bool
	chatErrors  map[string]int
	webhookURL  string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{fileStatus: http.StatusOK, failMethods: map[string]bool{}, chatErrors: map[string]int{}}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/file/bot"+testToken+"/") {
		f.downloads++
		w.WriteHeader(f.fileStatus)
		_, _ = w.Write(f.fileBody)
		return
	}

	method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")
	call := apiCall{method: method, form: map[string]string{}}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			call.form[k] = v[0]
		}
		for k, headers := range r.MultipartForm.File {
			if k != "document" || len(headers) == 0 {
				continue
			}
			call.filename = headers[0].Filename
			fh, err := headers[0].Open()
			if err == nil {
				call.file, _ = io.ReadAll(fh)
				_ = fh.Close()
			}
		}
	}
	f.calls = append(f.calls, call)

	if f.failMethods[method] {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":500,"description":"Internal Server Error"}`))
		return
	}
	if code, ok := f.chatErrors[call.form["chat_id"]]; ok {
		w.WriteHeader(code)
		_, _ = fmt.Fprintf(w, `{"ok":false,"error_code":%d,"description":"%s"}`, code, http.StatusText(code))
		return
	}

	var result any
	switch method {
	case "getFile":
		result = map[string]any{
			"file_id":        call.form["file_id"],
			"file_unique_id": "unique",
			"file_size":      f.fileSize,
			"file_path":      "stickers/file_1.webp",
		}
	case "sendMessage", "sendDocument":
		result = map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 42, "type": "private"}}
	case "getWebhookInfo":
		result = map[string]any{"url": f.webhookURL, "has_custom_certificate": false, "pending_update_count": 3}
	default:
		result = true
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

func (f *fakeAPI) callsFor(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func testConfig() config.TelegramConfig {
	return config.TelegramConfig{
		Token:           testToken,
		WebhookURL:      "https://bot.example.com",
		WebhookPath:     "/" + testToken,
		SecretToken:     "secret_value",
		APITimeout:      5 * time.Second,
		MaxFileBytes:    1024,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *telegram.Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b, err := telegram.NewTelegramBot(testToken, srv.Client(), logger, bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	return telegram.NewClient(b, srv.Client(), testConfig(), logger)
}

func TestDownloadFile(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.fileBody = []byte("RIFF....WEBP")
	api.fileSize = int64(len(api.fileBody))
	client := newTestClient(t, api)

	data, err := client.DownloadFile(context.Background(), "file_1")
	require.NoError(t, err)
	assert.Equal(t, api.fileBody, data)

	calls := api.callsFor("getFile")
	require.Len(t, calls, 1)
	assert.Equal(t, "file_1", calls[0].form["file_id"])
}

func TestDownloadFile_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		setup         func(api *fakeAPI)
		wantErr       error
		wantDownloads int
	}{
		{
			name: "declared size over limit",
			setup: func(api *fakeAPI) {
				api.fileSize = 4096
				api.fileBody = []byte("x")
			},
			wantErr: telegram.ErrFileTooLarge,
		},
		{
			name: "body over limit",
			setup: func(api *fakeAPI) {
				api.fileBody = bytes.Repeat([]byte("x"), 2048)
			},
			wantErr:       telegram.ErrFileTooLarge,
			wantDownloads: 1,
		},
		{
			name:          "empty body",
			setup:         func(api *fakeAPI) {},
			wantErr:       telegram.ErrEmptyFile,
			wantDownloads: 1,
		},
		{
			name: "download status",
			setup: func(api *fakeAPI) {
				api.fileStatus = http.StatusNotFound
				api.fileBody = []byte("not found")
			},
			wantDownloads: 1,
		},
		{
			name:    "getFile fails",
			setup:   func(api *fakeAPI) { api.failMethods["getFile"] = true },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI()
			tt.setup(api)
			client := newTestClient(t, api)

			data, err := client.DownloadFile(context.Background(), "file_1")
			require.Error(t, err)
			assert.Nil(t, data)
			assert.NotContains(t, err.Error(), testToken)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantDownloads, api.downloads)
		})
	}
}

func TestDownloadFile_CancelledContext(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	client := newTestClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.DownloadFile(ctx, "file_1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.callsFor("getFile"))
}

func TestSendText(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	client := newTestClient(t, api)

	require.NoError(t, client.SendText(context.Background(), 42, "hello there"))

	calls := api.callsFor("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "42", calls[0].form["chat_id"])
	assert.Contains(t, calls[0].form["text"], "hello there")
}

func TestSendDocument(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	client := newTestClient(t, api)

	payload := []byte("\x89PNG\r\n\x1a\nfake")
	require.NoError(t, client.SendDocument(context.Background(), 42, "unique.png", bytes.NewReader(payload)))

	calls := api.callsFor("sendDocument")
	require.Len(t, calls, 1)
	assert.Equal(t, "42", calls[0].form["chat_id"])
	assert.Equal(t, "unique.png", calls[0].filename)
	assert.Equal(t, payload, calls[0].file)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.failMethods["sendMessage"] = true
	client := newTestClient(t, api)

	for i := 0; i < int(testConfig().BreakerFailures); i++ {
		err := client.SendText(context.Background(), 42, "x")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), testToken)
	}

	err := client.SendText(context.Background(), 42, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Len(t, api.callsFor("sendMessage"), int(testConfig().BreakerFailures))
}

func TestBreakerIgnoresChatScopedRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    int
		wantErr error
	}{
		{name: "bot blocked by user", code: http.StatusForbidden, wantErr: bot.ErrorForbidden},
		{name: "chat not found", code: http.StatusBadRequest, wantErr: bot.ErrorBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI()
			api.chatErrors["1"] = tt.code
			client := newTestClient(t, api)

			for i := 0; i < int(testConfig().BreakerFailures)+1; i++ {
				err := client.SendText(context.Background(), 1, "x")
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
			}

			require.NoError(t, client.SendText(context.Background(), 2, "hello healthy chat"))
			assert.Len(t, api.callsFor("sendMessage"), int(testConfig().BreakerFailures)+2)
		})
	}
}

func TestBreakerIgnoresRejectedDownloads(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.fileStatus = http.StatusNotFound
	client := newTestClient(t, api)

	for i := 0; i < int(testConfig().BreakerFailures)+1; i++ {
		_, err := client.DownloadFile(context.Background(), "gone")
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, int(testConfig().BreakerFailures)+1, api.downloads)

	require.NoError(t, client.SendText(context.Background(), 2, "still reachable"))
}

func TestRegisterWebhook(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	client := newTestClient(t, api)

	require.NoError(t, client.RegisterWebhook(context.Background()))

	calls := api.callsFor("setWebhook")
	require.Len(t, calls, 1)
	assert.Equal(t, "https://bot.example.com/"+testToken, calls[0].form["url"])
	assert.Equal(t, "secret_value", calls[0].form["secret_token"])
	assert.Contains(t, calls[0].form["allowed_updates"], "message")

	assert.NotContains(t, client.RedactedEndpoint(), testToken)
	assert.Equal(t, "https://bot.example.com/[REDACTED]", client.RedactedEndpoint())
}

func TestWebhookInfo(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.webhookURL = "https://bot.example.com/" + testToken
	client := newTestClient(t, api)

	info, err := client.WebhookInfo(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.PendingUpdateCount)
	assert.True(t, client.WebhookMatches(info))
	assert.False(t, client.WebhookMatches(&models.WebhookInfo{URL: "https://old.example.com/hook"}))
	assert.False(t, client.WebhookMatches(nil))
}

func TestDeleteWebhookAndCommands(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	client := newTestClient(t, api)

	require.NoError(t, client.DeleteWebhook(context.Background()))
	require.NoError(t, client.SetCommands(context.Background(), []models.BotCommand{
		{Command: "start", Description: "Start the bot"},
	}))

	assert.Len(t, api.callsFor("deleteWebhook"), 1)
	calls := api.callsFor("setMyCommands")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].form["commands"], `"start"`)
}

func TestNewTelegramBot_EmptyToken(t *testing.T) {
	t.Parallel()

	_, err := telegram.NewTelegramBot("", nil, nil)
	assert.Error(t, err)
}

func TestTokenPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "123456:T...", telegram.TokenPrefix(testToken))
	assert.Equal(t, "***", telegram.TokenPrefix("short"))
}
