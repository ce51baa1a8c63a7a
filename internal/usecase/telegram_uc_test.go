//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"telegram-gateway/internal/domain"
	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/usecase"
)

func TestTelegramUseCase_Subscribe(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewTelegramUseCase(NewMockBotGateway(), nil, "https://bot.example.com", newTestLogger())

	if err := uc.Subscribe(ctx, "42"); err != nil {
		t.Fatalf("expected no error, but got %v", err)
	}
	if err := uc.Subscribe(ctx, "  "); !errors.Is(err, domain.ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestTelegramUseCase_SubscribeToChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the invite link built from getMe", func(t *testing.T) {
		bot := NewMockBotGateway()
		bot.MeFunc = func(ctx context.Context) (model.BotIdentity, error) {
			return model.BotIdentity{Username: "news_bot"}, nil
		}
		uc := usecase.NewTelegramUseCase(bot, nil, "", newTestLogger())

		if err := uc.SubscribeToChannel(ctx, "42"); err != nil {
			t.Fatalf("expected no error, but got %v", err)
		}
		if len(bot.Sent) != 1 {
			t.Fatalf("expected one message, got %d", len(bot.Sent))
		}
		if bot.Sent[0].Chat.ID != 42 {
			t.Errorf("sent to wrong chat %+v", bot.Sent[0].Chat)
		}
		want := "Please join our Telegram channel at https://t.me/news_bot to receive updates."
		if bot.Sent[0].Text != want {
			t.Errorf("unexpected text %q", bot.Sent[0].Text)
		}
	})

	t.Run("getMe failure stops before sending", func(t *testing.T) {
		bot := NewMockBotGateway()
		bot.MeFunc = func(ctx context.Context) (model.BotIdentity, error) {
			return model.BotIdentity{}, &domain.BotError{Op: "getMe", Kind: domain.BotErrorAPI, Code: 401, Description: "Unauthorized"}
		}
		uc := usecase.NewTelegramUseCase(bot, nil, "", newTestLogger())

		err := uc.SubscribeToChannel(ctx, "42")
		if _, ok := domain.IsBotError(err); !ok {
			t.Fatalf("expected bot error, got %v", err)
		}
		if len(bot.Sent) != 0 {
			t.Error("no message should be sent")
		}
	})

	t.Run("missing and malformed user id", func(t *testing.T) {
		uc := usecase.NewTelegramUseCase(NewMockBotGateway(), nil, "", newTestLogger())
		if err := uc.SubscribeToChannel(ctx, ""); !errors.Is(err, domain.ErrMissingUserID) {
			t.Errorf("expected ErrMissingUserID, got %v", err)
		}
		if err := uc.SubscribeToChannel(ctx, "not-a-number"); !errors.Is(err, domain.ErrInvalidChatID) {
			t.Errorf("expected ErrInvalidChatID, got %v", err)
		}
	})
}

func TestTelegramUseCase_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers text", func(t *testing.T) {
		bot := NewMockBotGateway()
		uc := usecase.NewTelegramUseCase(bot, nil, "", newTestLogger())

		if err := uc.SendMessage(ctx, "123", "hi"); err != nil {
			t.Fatalf("expected no error, but got %v", err)
		}
		if len(bot.Sent) != 1 || bot.Sent[0].Text != "hi" || bot.Sent[0].Chat.ID != 123 {
			t.Fatalf("unexpected sends %+v", bot.Sent)
		}
	})

	t.Run("bot rejection is wrapped", func(t *testing.T) {
		bot := NewMockBotGateway()
		bot.SendTextFunc = func(ctx context.Context, chat model.ChatRef, text string) error {
			return &domain.BotError{Op: "sendMessage", Kind: domain.BotErrorAPI, Code: 400, Description: "Bad Request: chat not found"}
		}
		uc := usecase.NewTelegramUseCase(bot, nil, "", newTestLogger())

		err := uc.SendMessage(ctx, "123", "hi")
		be, ok := domain.IsBotError(err)
		if !ok || be.Description != "Bad Request: chat not found" {
			t.Fatalf("expected wrapped bot error, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		bot := NewMockBotGateway()
		uc := usecase.NewTelegramUseCase(bot, nil, "", newTestLogger())

		if err := uc.SendMessage(ctx, "", "hi"); !errors.Is(err, domain.ErrMissingChatID) {
			t.Errorf("expected ErrMissingChatID, got %v", err)
		}
		if err := uc.SendMessage(ctx, "123", " "); !errors.Is(err, domain.ErrMissingMessage) {
			t.Errorf("expected ErrMissingMessage, got %v", err)
		}
		if len(bot.Sent) != 0 {
			t.Error("invalid input must not reach telegram")
		}
	})

	t.Run("throttled", func(t *testing.T) {
		bot := NewMockBotGateway()
		lim := &MockLimiter{Allowed: false}
		uc := usecase.NewTelegramUseCase(bot, lim, "", newTestLogger())

		if err := uc.SendMessage(ctx, "@news", "hi"); !errors.Is(err, domain.ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
		if len(bot.Sent) != 0 {
			t.Error("throttled send must not reach telegram")
		}
		if lim.Keys[0] != "@news" {
			t.Errorf("limiter keyed by %q", lim.Keys[0])
		}
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		bot := NewMockBotGateway()
		lim := &MockLimiter{Err: errors.New("redis down")}
		uc := usecase.NewTelegramUseCase(bot, lim, "", newTestLogger())

		if err := uc.SendMessage(ctx, "1", "hi"); err != nil {
			t.Fatalf("expected send to proceed, got %v", err)
		}
		if len(bot.Sent) != 1 {
			t.Fatal("message should still be sent")
		}
	})
}

func TestTelegramUseCase_SetWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("registers base url plus /webhook", func(t *testing.T) {
		bot := NewMockBotGateway()
		uc := usecase.NewTelegramUseCase(bot, nil, "https://bot.example.com/", newTestLogger())

		reg, err := uc.SetWebhook(ctx, "abc")
		if err != nil {
			t.Fatalf("expected no error, but got %v", err)
		}
		if reg.Token != "abc" || reg.WebhookURL != "https://bot.example.com/webhook" {
			t.Fatalf("unexpected registration %+v", reg)
		}
		if len(bot.Webhooks) != 1 || bot.Webhooks[0] != reg.WebhookURL {
			t.Fatalf("telegram not called with the webhook url: %v", bot.Webhooks)
		}
	})

	t.Run("token required", func(t *testing.T) {
		uc := usecase.NewTelegramUseCase(NewMockBotGateway(), nil, "https://x", newTestLogger())
		if _, err := uc.SetWebhook(ctx, ""); !errors.Is(err, domain.ErrMissingToken) {
			t.Fatalf("expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("any failure is returned", func(t *testing.T) {
		bot := NewMockBotGateway()
		bot.SetWebhookFunc = func(ctx context.Context, url string) error { return errors.New("boom") }
		uc := usecase.NewTelegramUseCase(bot, nil, "https://x", newTestLogger())

		_, err := uc.SetWebhook(ctx, "abc")
		if err == nil || !strings.Contains(err.Error(), "boom") {
			t.Fatalf("expected wrapped failure, got %v", err)
		}
	})
}
