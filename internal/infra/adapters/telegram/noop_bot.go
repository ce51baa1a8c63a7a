package telegram

import (
	"context"
	"time"

	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.BotGateway = (*NoopBotGateway)(nil)

// NoopBotGateway implements adapter.BotGateway for local/dev runs.
// It logs calls instead of reaching Telegram.
type NoopBotGateway struct {
	username string
	log      *zerolog.Logger
}

func NewNoopBotGateway(username string, logger *zerolog.Logger) *NoopBotGateway {
	if username == "" {
		username = "noop_bot"
	}
	return &NoopBotGateway{username: username, log: logger}
}

func (b *NoopBotGateway) Me(ctx context.Context) (model.BotIdentity, error) {
	if err := ctx.Err(); err != nil {
		return model.BotIdentity{}, err
	}
	return model.BotIdentity{ID: 1, Username: b.username, FirstName: "Noop"}, nil
}

// SendText logs the message and simulates a small delay.
func (b *NoopBotGateway) SendText(ctx context.Context, chat model.ChatRef, text string) error {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Str("chat", chat.String()).Str("text", text).Msg("noop-telegram sendMessage")
	return nil
}

func (b *NoopBotGateway) SetWebhook(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Info().Str("url", url).Msg("noop-telegram setWebhook")
	return nil
}
