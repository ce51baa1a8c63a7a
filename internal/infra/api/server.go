package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telegram-gateway/internal/config"
	"telegram-gateway/internal/infra/api/apiv1"
	"telegram-gateway/internal/infra/api/openapi"
	"telegram-gateway/internal/infra/api/respond"
	"telegram-gateway/internal/infra/metrics"
)

// NewRouter wires the versioned API under cfg.Prefix next to the unprefixed
// operational routes.
func NewRouter(cfg config.HTTPConfig, v1 *apiv1.Server, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(logger), Recover(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusNotFound, respond.ErrorMessage, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, respond.ErrorMessage, fmt.Sprintf("method %s not allowed", r.Method))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Method(http.MethodGet, "/openapi.yaml", openapi.Handler())

	prefix := "/" + strings.Trim(cfg.Prefix, "/")
	if prefix == "/" {
		apiv1.RegisterAPIV1(r, v1, v1.ParamError)
	} else {
		r.Route(prefix, func(r chi.Router) {
			apiv1.RegisterAPIV1(r, v1, v1.ParamError)
		})
	}
	return r
}

// NewHTTPServer returns a server for h listening on cfg.Port.
func NewHTTPServer(cfg config.HTTPConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
