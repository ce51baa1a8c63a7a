//go:build !integration

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telegram-gateway/internal/config"
	"telegram-gateway/internal/domain"
	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/infra/api/apiv1"
)

type stubTelegramUC struct{}

func (stubTelegramUC) Subscribe(_ context.Context, userID string) error {
	if userID == "" {
		return domain.ErrMissingUserID
	}
	return nil
}

func (stubTelegramUC) SubscribeToChannel(context.Context, string) error { return nil }

func (stubTelegramUC) SendMessage(context.Context, string, string) error { return nil }

func (stubTelegramUC) SetWebhook(_ context.Context, token string) (*model.WebhookRegistration, error) {
	return &model.WebhookRegistration{Token: token, WebhookURL: "https://example.com/webhook"}, nil
}

type stubRelayUC struct{}

func (stubRelayUC) Relay(context.Context, model.RelayRequest) (model.RelayResult, error) {
	return model.RelayResult{StatusCode: http.StatusOK}, nil
}

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func newRouter(prefix string) http.Handler {
	v1 := apiv1.NewServer(stubTelegramUC{}, stubRelayUC{}, 0, newLogger())
	return NewRouter(config.HTTPConfig{Prefix: prefix}, v1, newLogger())
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.Envelope {
	t.Helper()
	var env model.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v, body=%s", err, rec.Body.String())
	}
	return env
}

func TestRouter_HealthAndDocs(t *testing.T) {
	h := newRouter("/api/v1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/send-message:") {
		t.Fatalf("openapi: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func TestRouter_PrefixedRoutes(t *testing.T) {
	cases := []struct {
		prefix string
		path   string
	}{
		{"/api/v1", "/api/v1/subscribe"},
		{"bot/", "/bot/subscribe"},
		{"/", "/subscribe"},
	}
	for _, tc := range cases {
		t.Run(tc.prefix, func(t *testing.T) {
			h := newRouter(tc.prefix)
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("user-id", "42")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
			}
			if env := decodeEnvelope(t, rec); env.Status != model.StatusSuccess {
				t.Fatalf("status = %q", env.Status)
			}
		})
	}
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	h := newRouter("/api/v1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Status != model.StatusError || env.Message != "An error occurred" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/subscribe", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Status != model.StatusError {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer(config.HTTPConfig{Port: 8088}, http.NotFoundHandler())
	if srv.Addr != ":8088" || srv.ReadHeaderTimeout == 0 {
		t.Fatalf("unexpected server: addr=%s rht=%s", srv.Addr, srv.ReadHeaderTimeout)
	}
}
