// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-gateway/internal/domain/model"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// MockBotGateway records calls and delegates to the optional Func hooks.
type MockBotGateway struct {
	mu             sync.Mutex
	MeFunc         func(ctx context.Context) (model.BotIdentity, error)
	SendTextFunc   func(ctx context.Context, chat model.ChatRef, text string) error
	SetWebhookFunc func(ctx context.Context, url string) error

	Sent     []sentText
	Webhooks []string
}

type sentText struct {
	Chat model.ChatRef
	Text string
}

func NewMockBotGateway() *MockBotGateway { return &MockBotGateway{} }

func (m *MockBotGateway) Me(ctx context.Context) (model.BotIdentity, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return model.BotIdentity{ID: 1, Username: "test_bot"}, nil
}

func (m *MockBotGateway) SendText(ctx context.Context, chat model.ChatRef, text string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, sentText{Chat: chat, Text: text})
	m.mu.Unlock()
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, chat, text)
	}
	return nil
}

func (m *MockBotGateway) SetWebhook(ctx context.Context, url string) error {
	m.mu.Lock()
	m.Webhooks = append(m.Webhooks, url)
	m.mu.Unlock()
	if m.SetWebhookFunc != nil {
		return m.SetWebhookFunc(ctx, url)
	}
	return nil
}

// MockLimiter answers with fixed values and counts calls.
type MockLimiter struct {
	Allowed bool
	Err     error
	Calls   int
	Keys    []string
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.Calls++
	m.Keys = append(m.Keys, key)
	return m.Allowed, m.Err
}

// MockRelay returns a canned result.
type MockRelay struct {
	Result   model.RelayResult
	Err      error
	Requests []model.RelayRequest
}

func (m *MockRelay) Forward(ctx context.Context, req model.RelayRequest) (model.RelayResult, error) {
	m.Requests = append(m.Requests, req)
	return m.Result, m.Err
}
