package telegram

import (
	"context"
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-gateway/internal/config"
	"telegram-gateway/internal/domain"
	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/domain/ports/adapter"
	"telegram-gateway/internal/infra/logging"
	"telegram-gateway/internal/infra/metrics"
)

var _ adapter.BotGateway = (*BotGateway)(nil)

// botAPI is the subset of *tgbotapi.BotAPI the gateway calls.
type botAPI interface {
	GetMe() (tgbotapi.User, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// BotGateway implements adapter.BotGateway on top of tgbotapi.
// It is built once at startup and is safe for concurrent use: the client
// holds nothing mutable beyond the token.
type BotGateway struct {
	bot botAPI
	log *zerolog.Logger
}

// NewBotGateway creates the Bot API client. tgbotapi calls getMe while
// constructing, so a bad token fails here rather than on the first request.
func NewBotGateway(cfg *config.TelegramConfig, logger *zerolog.Logger) (*BotGateway, error) {
	if cfg == nil {
		return nil, errors.New("telegram config is nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("telegram token is empty")
	}
	client := &http.Client{Timeout: cfg.Timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.APIEndpoint, client)
	if err != nil {
		return nil, classify("getMe", err)
	}
	logger.Info().
		Str("bot", bot.Self.UserName).
		Str("token", logging.Redact(cfg.Token, false)).
		Msg("telegram bot authorized")
	return &BotGateway{bot: bot, log: logger}, nil
}

func newBotGatewayWithAPI(bot botAPI, logger *zerolog.Logger) *BotGateway {
	return &BotGateway{bot: bot, log: logger}
}

func (g *BotGateway) Me(ctx context.Context) (model.BotIdentity, error) {
	if err := ctx.Err(); err != nil {
		return model.BotIdentity{}, err
	}
	u, err := g.bot.GetMe()
	if err != nil {
		return model.BotIdentity{}, g.fail("getMe", err)
	}
	metrics.IncTelegramCall("getMe", "ok")
	return model.BotIdentity{ID: u.ID, Username: u.UserName, FirstName: u.FirstName}, nil
}

func (g *BotGateway) SendText(ctx context.Context, chat model.ChatRef, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var msg tgbotapi.MessageConfig
	if chat.IsChannel() {
		msg = tgbotapi.NewMessageToChannel(chat.Username, text)
	} else {
		msg = tgbotapi.NewMessage(chat.ID, text)
	}
	if _, err := g.bot.Send(msg); err != nil {
		return g.fail("sendMessage", err)
	}
	metrics.IncTelegramCall("sendMessage", "ok")
	return nil
}

func (g *BotGateway) SetWebhook(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return &domain.BotError{Op: "setWebhook", Kind: domain.BotErrorTransport, Err: err}
	}
	if _, err := g.bot.Request(wh); err != nil {
		return g.fail("setWebhook", err)
	}
	metrics.IncTelegramCall("setWebhook", "ok")
	return nil
}

func (g *BotGateway) fail(op string, err error) error {
	be := classify(op, err)
	outcome := "transport_error"
	if be.Kind == domain.BotErrorAPI {
		outcome = "api_error"
	}
	metrics.IncTelegramCall(op, outcome)
	g.log.Warn().
		Str("op", op).
		Str("kind", string(be.Kind)).
		Int("code", be.Code).
		Err(err).
		Msg("telegram call failed")
	return be
}

// classify turns a tgbotapi error into *domain.BotError. tgbotapi returns
// *tgbotapi.Error when Telegram answered ok=false; everything else means the
// request or its decoding failed.
func classify(op string, err error) *domain.BotError {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &domain.BotError{Op: op, Kind: domain.BotErrorAPI, Code: apiErr.Code, Description: apiErr.Message, Err: err}
	}
	return &domain.BotError{Op: op, Kind: domain.BotErrorTransport, Err: err}
}
