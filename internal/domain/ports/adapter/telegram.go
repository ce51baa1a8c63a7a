// File: internal/domain/ports/adapter/telegram.go
package adapter

import (
	"context"

	"telegram-gateway/internal/domain/model"
)

// BotGateway is the port over the Telegram Bot API client.
// Failed calls return *domain.BotError.
type BotGateway interface {
	Me(ctx context.Context) (model.BotIdentity, error)
	SendText(ctx context.Context, chat model.ChatRef, text string) error
	SetWebhook(ctx context.Context, url string) error
}
