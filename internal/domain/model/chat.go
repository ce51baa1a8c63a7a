package model

import (
	"strconv"
	"strings"

	"telegram-gateway/internal/domain"
)

// ChatRef addresses a Telegram chat either by numeric id or by public @username.
type ChatRef struct {
	ID       int64
	Username string
}

// ParseChatRef accepts "123", "-100123" or "@channel".
func ParseChatRef(raw string) (ChatRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ChatRef{}, domain.ErrMissingChatID
	}
	if strings.HasPrefix(raw, "@") {
		if len(raw) < 2 || strings.ContainsAny(raw, " \t") {
			return ChatRef{}, domain.ErrInvalidChatID
		}
		return ChatRef{Username: raw}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return ChatRef{}, domain.ErrInvalidChatID
	}
	return ChatRef{ID: id}, nil
}

func (c ChatRef) IsChannel() bool { return c.Username != "" }

// String returns the canonical form, suitable as a rate limit key.
func (c ChatRef) String() string {
	if c.IsChannel() {
		return c.Username
	}
	return strconv.FormatInt(c.ID, 10)
}

// BotIdentity is the subset of getMe the gateway exposes.
type BotIdentity struct {
	ID        int64
	Username  string
	FirstName string
}
