package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubToken(t *testing.T) {
	t.Parallel()

	const token = "123456:secret"
	base := errors.New("Get \"https://api.telegram.org/file/bot123456:secret/a.webp\": timeout")

	err := scrubToken(fmt.Errorf("download: %w", base), token)
	assert.NotContains(t, err.Error(), token)
	assert.Contains(t, err.Error(), "/file/bot[REDACTED]/a.webp")
	assert.ErrorIs(t, err, base)

	plain := errors.New("no token here")
	assert.Same(t, plain, scrubToken(plain, token))
	assert.NoError(t, scrubToken(nil, token))
	assert.Same(t, base, scrubToken(base, ""))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/[REDACTED]", Redact("/123:abc", "123:abc"))
	assert.Equal(t, "/hook", Redact("/hook", "123:abc"))
	assert.Equal(t, "/123:abc", Redact("/123:abc", ""))
}
