package domain

import (
	"errors"
	"fmt"
)

var (
	// Request validation errors
	ErrMissingUserID         = errors.New("user-id header is required")
	ErrMissingChatID         = errors.New("chat_id is required")
	ErrInvalidChatID         = errors.New("chat_id must be a numeric id or an @channel username")
	ErrMissingMessage        = errors.New("message is required")
	ErrMissingToken          = errors.New("token is required")
	ErrMissingDestination    = errors.New("webhook_url header is required")
	ErrInvalidDestination    = errors.New("webhook_url must be an absolute http(s) url")
	ErrDestinationNotAllowed = errors.New("webhook_url host is not allowed")

	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrDownstreamStatus = errors.New("downstream rejected the payload")
)

// BotErrorKind tells a Telegram-side rejection apart from a failure to reach Telegram at all.
type BotErrorKind string

const (
	BotErrorTransport BotErrorKind = "transport"
	BotErrorAPI       BotErrorKind = "api"
)

// BotError is returned by the bot gateway for every failed Bot API call.
type BotError struct {
	Op          string
	Kind        BotErrorKind
	Code        int    // Telegram error_code, api kind only
	Description string // Telegram description, api kind only
	Err         error
}

func (e *BotError) Error() string {
	if e.Kind == BotErrorAPI && e.Description != "" {
		return e.Description
	}
	if e.Err == nil {
		return fmt.Sprintf("telegram %s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *BotError) Unwrap() error { return e.Err }

// IsBotError reports whether err carries a *BotError and returns it.
func IsBotError(err error) (*BotError, bool) {
	var be *BotError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
