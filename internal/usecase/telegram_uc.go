package usecase

import (
	"context"
	"fmt"
	"strings"

	"telegram-gateway/internal/domain"
	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/domain/ports/adapter"
	"telegram-gateway/internal/infra/logging"
	"telegram-gateway/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ TelegramUseCase = (*telegramUC)(nil)

// WebhookPath is appended to the public base URL when registering the bot webhook.
const WebhookPath = "/webhook"

// TelegramUseCase exposes the bot operations behind the HTTP API.
type TelegramUseCase interface {
	Subscribe(ctx context.Context, userID string) error
	SubscribeToChannel(ctx context.Context, userID string) error
	SendMessage(ctx context.Context, chatID, text string) error
	SetWebhook(ctx context.Context, token string) (*model.WebhookRegistration, error)
}

type telegramUC struct {
	bot           adapter.BotGateway
	limiter       adapter.RateLimiter
	publicBaseURL string
	log           *zerolog.Logger
}

// NewTelegramUseCase wires the bot gateway. limiter may be nil to disable throttling.
func NewTelegramUseCase(bot adapter.BotGateway, limiter adapter.RateLimiter, publicBaseURL string, logger *zerolog.Logger) *telegramUC {
	return &telegramUC{
		bot:           bot,
		limiter:       limiter,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		log:           logger,
	}
}

// Subscribe only acknowledges the user; there is nothing to persist.
func (u *telegramUC) Subscribe(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrMissingUserID
	}
	logging.With(ctx, u.log).Info().Str("user_id", userID).Msg("user subscribed to bot")
	return nil
}

// SubscribeToChannel sends the user an invite pointing at the bot's public username.
func (u *telegramUC) SubscribeToChannel(ctx context.Context, userID string) error {
	defer logging.TraceDuration(u.log, "TelegramUC.SubscribeToChannel")()

	if strings.TrimSpace(userID) == "" {
		return domain.ErrMissingUserID
	}
	chat, err := model.ParseChatRef(userID)
	if err != nil {
		return err
	}
	me, err := u.bot.Me(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to channel: %w", err)
	}
	text := fmt.Sprintf("Please join our Telegram channel at https://t.me/%s to receive updates.", me.Username)
	if err := u.bot.SendText(ctx, chat, text); err != nil {
		return fmt.Errorf("subscribe to channel: %w", err)
	}
	return nil
}

func (u *telegramUC) SendMessage(ctx context.Context, chatID, text string) error {
	defer logging.TraceDuration(u.log, "TelegramUC.SendMessage")()

	chat, err := model.ParseChatRef(chatID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrMissingMessage
	}

	ctx = logging.WithChatID(ctx, chat.String())
	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, chat.String())
		switch {
		case err != nil:
			// fail open: a broken limiter must not stop delivery
			logging.With(ctx, u.log).Warn().Err(err).Msg("rate limiter unavailable")
		case !ok:
			metrics.IncSendRateLimited()
			return domain.ErrRateLimited
		}
	}

	if err := u.bot.SendText(ctx, chat, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SetWebhook registers <public base url>/webhook with Telegram and echoes the token back.
func (u *telegramUC) SetWebhook(ctx context.Context, token string) (*model.WebhookRegistration, error) {
	defer logging.TraceDuration(u.log, "TelegramUC.SetWebhook")()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	reg := &model.WebhookRegistration{
		Token:      token,
		WebhookURL: u.publicBaseURL + WebhookPath,
	}
	if err := u.bot.SetWebhook(ctx, reg.WebhookURL); err != nil {
		return nil, fmt.Errorf("set webhook: %w", err)
	}
	logging.With(ctx, u.log).Info().Str("webhook_url", reg.WebhookURL).Msg("webhook registered")
	return reg, nil
}
