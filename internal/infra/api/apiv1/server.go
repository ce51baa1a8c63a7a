// Package apiv1 serves the versioned bot API. Every response is a JSON envelope.
package apiv1

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"telegram-gateway/internal/domain"
	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/infra/api/respond"
	"telegram-gateway/internal/infra/logging"
	"telegram-gateway/internal/usecase"
)

var _ ServerInterface = (*Server)(nil)

// DefaultMaxBodyBytes applies when NewServer gets a non-positive limit.
const DefaultMaxBodyBytes = 1 << 20

type sendMessageRequest struct {
	ChatID  string `json:"chat_id" validate:"required"`
	Message string `json:"message" validate:"required,max=4096"`
}

type setWebhookRequest struct {
	Token string `json:"token" validate:"required"`
}

type Server struct {
	tg      usecase.TelegramUseCase
	relay   usecase.RelayUseCase
	maxBody int64
	log     *zerolog.Logger
}

func NewServer(tg usecase.TelegramUseCase, relay usecase.RelayUseCase, maxBodyBytes int64, logger *zerolog.Logger) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Server{tg: tg, relay: relay, maxBody: maxBodyBytes, log: logger}
}

func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request, params SubscribeParams) {
	if err := s.tg.Subscribe(r.Context(), params.UserID); err != nil {
		s.fail(w, r, err)
		return
	}
	respond.WriteSuccess(w, http.StatusOK, "User subscribed successfully", "You have been subscribed to our chat bot")
}

func (s *Server) SubscribeToChannel(w http.ResponseWriter, r *http.Request, params SubscribeParams) {
	if err := s.tg.SubscribeToChannel(r.Context(), params.UserID); err != nil {
		s.fail(w, r, err)
		return
	}
	respond.WriteSuccess(w, http.StatusOK, "User subscribed successfully to channel", "You have been subscribed to our channel")
}

// SendMessage takes chat_id and message from the query string; body fields win.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request, params SendMessageParams) {
	req := sendMessageRequest{ChatID: deref(params.ChatID), Message: deref(params.Message)}
	fields, err := s.fields(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if v, ok := fields["chat_id"]; ok {
		req.ChatID = v
	}
	if v, ok := fields["message"]; ok {
		req.Message = v
	}
	if err := validateStruct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.tg.SendMessage(r.Context(), req.ChatID, req.Message); err != nil {
		s.fail(w, r, err)
		return
	}
	respond.WriteSuccess(w, http.StatusOK, "Message sent successfully", "Message Sent")
}

func (s *Server) SetWebhook(w http.ResponseWriter, r *http.Request, params SetWebhookParams) {
	req := setWebhookRequest{Token: deref(params.Token)}
	fields, err := s.fields(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if v, ok := fields["token"]; ok {
		req.Token = v
	}
	if err := validateStruct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	reg, err := s.tg.SetWebhook(r.Context(), req.Token)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond.WriteSuccess(w, http.StatusOK, "WebHook Succesfully Created", reg)
}

// RelayWebhook forwards the raw body, or the query string as JSON when the body is empty.
func (s *Server) RelayWebhook(w http.ResponseWriter, r *http.Request, params WebhookParams) {
	body, err := readBody(w, r, s.maxBody)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if len(bytes.TrimSpace(body)) == 0 {
		if body, err = queryPayload(r.URL.Query()); err != nil {
			s.fail(w, r, err)
			return
		}
		contentType = "application/json"
	}

	_, err = s.relay.Relay(r.Context(), model.RelayRequest{
		Destination: params.WebhookURL,
		ContentType: contentType,
		Payload:     body,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond.WriteSuccess(w, http.StatusOK, "Succesfully Sent", "Succesfully Sent")
}

// ParamError is the ErrorHandlerFunc passed to RegisterAPIV1.
func (s *Server) ParamError(w http.ResponseWriter, r *http.Request, err error) {
	s.fail(w, r, err)
}

func (s *Server) fields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	body, err := readBody(w, r, s.maxBody)
	if err != nil {
		return nil, err
	}
	return bodyFields(r.Header.Get("Content-Type"), body)
}

// fail maps err to an error envelope: 429 when throttled, 413 for an oversized
// body, 400 otherwise.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusBadRequest
	var errs any = err.Error()

	var verr *ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		code = http.StatusTooManyRequests
	case errors.As(err, &tooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.As(err, &verr):
		errs = verr.Fields
	}
	if be, ok := domain.IsBotError(err); ok {
		errs = be.Error()
	}

	logging.With(r.Context(), s.log).Warn().
		Err(err).
		Str("path", r.URL.Path).
		Int("status", code).
		Msg("request failed")
	respond.WriteError(w, code, respond.ErrorMessage, errs)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
