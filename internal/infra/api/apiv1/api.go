package apiv1

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Header and query parameter names shared with openapi.yaml.
const (
	UserIDHeader        = "user-id"
	WebhookURLHeader    = "webhook_url"
	WebhookURLAltHeader = "Webhook-Url"
)

// SubscribeParams defines parameters for Subscribe and SubscribeToChannel.
type SubscribeParams struct {
	UserID string `json:"user-id"`
}

// SendMessageParams defines query parameters for SendMessage.
type SendMessageParams struct {
	ChatID  *string `form:"chat_id,omitempty" json:"chat_id,omitempty"`
	Message *string `form:"message,omitempty" json:"message,omitempty"`
}

// SetWebhookParams defines query parameters for SetWebhook.
type SetWebhookParams struct {
	Token *string `form:"token,omitempty" json:"token,omitempty"`
}

// WebhookParams defines parameters for RelayWebhook.
type WebhookParams struct {
	WebhookURL string `json:"webhook_url"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /subscribe)
	Subscribe(w http.ResponseWriter, r *http.Request, params SubscribeParams)
	// (GET /subscribe-to-channel)
	SubscribeToChannel(w http.ResponseWriter, r *http.Request, params SubscribeParams)
	// (GET|POST /send-message)
	SendMessage(w http.ResponseWriter, r *http.Request, params SendMessageParams)
	// (GET /setwebhook)
	SetWebhook(w http.ResponseWriter, r *http.Request, params SetWebhookParams)
	// (GET|POST /webhook)
	RelayWebhook(w http.ResponseWriter, r *http.Request, params WebhookParams)
}

// ParamError is reported when a parameter cannot be bound.
type ParamError struct {
	Param string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.Param, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// ErrorHandlerFunc writes the response for a ParamError.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// ServerInterfaceWrapper binds parameters and hands off to the ServerInterface.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc ErrorHandlerFunc
}

func (siw *ServerInterfaceWrapper) bindUserID(r *http.Request) (SubscribeParams, error) {
	var params SubscribeParams
	if v := r.Header.Get(UserIDHeader); v != "" {
		if err := runtime.BindStyledParameterWithLocation("simple", false, UserIDHeader, runtime.ParamLocationHeader, v, &params.UserID); err != nil {
			return params, &ParamError{Param: UserIDHeader, Err: err}
		}
	}
	return params, nil
}

func (siw *ServerInterfaceWrapper) Subscribe(w http.ResponseWriter, r *http.Request) {
	params, err := siw.bindUserID(r)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}
	siw.Handler.Subscribe(w, r, params)
}

func (siw *ServerInterfaceWrapper) SubscribeToChannel(w http.ResponseWriter, r *http.Request) {
	params, err := siw.bindUserID(r)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}
	siw.Handler.SubscribeToChannel(w, r, params)
}

func (siw *ServerInterfaceWrapper) SendMessage(w http.ResponseWriter, r *http.Request) {
	var params SendMessageParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "chat_id", q, &params.ChatID); err != nil {
		siw.ErrorHandlerFunc(w, r, &ParamError{Param: "chat_id", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "message", q, &params.Message); err != nil {
		siw.ErrorHandlerFunc(w, r, &ParamError{Param: "message", Err: err})
		return
	}
	siw.Handler.SendMessage(w, r, params)
}

func (siw *ServerInterfaceWrapper) SetWebhook(w http.ResponseWriter, r *http.Request) {
	var params SetWebhookParams
	if err := runtime.BindQueryParameter("form", true, false, "token", r.URL.Query(), &params.Token); err != nil {
		siw.ErrorHandlerFunc(w, r, &ParamError{Param: "token", Err: err})
		return
	}
	siw.Handler.SetWebhook(w, r, params)
}

func (siw *ServerInterfaceWrapper) RelayWebhook(w http.ResponseWriter, r *http.Request) {
	var params WebhookParams
	v := r.Header.Get(WebhookURLHeader)
	if v == "" {
		v = r.Header.Get(WebhookURLAltHeader)
	}
	if v != "" {
		if err := runtime.BindStyledParameterWithLocation("simple", false, WebhookURLHeader, runtime.ParamLocationHeader, v, &params.WebhookURL); err != nil {
			siw.ErrorHandlerFunc(w, r, &ParamError{Param: WebhookURLHeader, Err: err})
			return
		}
	}
	siw.Handler.RelayWebhook(w, r, params)
}

// RegisterAPIV1 mounts every v1 route on r. Paths are relative, so callers
// choose the prefix with chi's Route or Mount.
func RegisterAPIV1(r chi.Router, si ServerInterface, errHandler ErrorHandlerFunc) {
	if errHandler == nil {
		errHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{Handler: si, ErrorHandlerFunc: errHandler}

	r.Get("/subscribe", wrapper.Subscribe)
	r.Get("/subscribe-to-channel", wrapper.SubscribeToChannel)
	r.Get("/send-message", wrapper.SendMessage)
	r.Post("/send-message", wrapper.SendMessage)
	r.Get("/setwebhook", wrapper.SetWebhook)
	r.Get("/webhook", wrapper.RelayWebhook)
	r.Post("/webhook", wrapper.RelayWebhook)
}
