package telegram

import "strings"

const redacted = "[REDACTED]"

// scrubToken removes the bot token from err's message. net/http includes the
// request URL, which contains the token, in its error strings. The wrapped
// error stays reachable through Unwrap.
func scrubToken(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return &scrubbedError{msg: strings.ReplaceAll(msg, token, redacted), err: err}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

// Redact replaces token in s, for logging URLs and paths derived from it.
func Redact(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, redacted)
}
