package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/domain/ports/adapter"
	"telegram-gateway/internal/infra/logging"
	"telegram-gateway/internal/infra/metrics"
)

// AttemptHeader carries a per-attempt id for log correlation on the receiving side.
const AttemptHeader = "X-Relay-Attempt-Id"

var _ adapter.Relay = (*HTTPRelay)(nil)

// HTTPRelay forwards payloads with a single POST. It never retries.
type HTTPRelay struct {
	client *http.Client
	log    *zerolog.Logger
}

func NewHTTPRelay(timeout time.Duration, logger *zerolog.Logger) *HTTPRelay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRelay{client: &http.Client{Timeout: timeout, CheckRedirect: noRedirect}, log: logger}
}

// NewHTTPRelayWithClient is used by tests to point at an httptest server.
// client is copied and never follows redirects either.
func NewHTTPRelayWithClient(client *http.Client, logger *zerolog.Logger) *HTTPRelay {
	c := *client
	c.CheckRedirect = noRedirect
	return &HTTPRelay{client: &c, log: logger}
}

// noRedirect makes a 3xx reply the result of the attempt. Following it would
// post again, possibly to a host outside relay.allowed_hosts.
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (r *HTTPRelay) Forward(ctx context.Context, req model.RelayRequest) (model.RelayResult, error) {
	res := model.RelayResult{AttemptID: ulid.Make().String()}
	l := logging.With(ctx, r.log)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Destination, bytes.NewReader(req.Payload))
	if err != nil {
		return res, fmt.Errorf("build relay request: %w", err)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set(AttemptHeader, res.AttemptID)

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	res.Duration = time.Since(start)
	if err != nil {
		metrics.ObserveRelay("transport_error", res.Duration)
		l.Warn().Str("attempt_id", res.AttemptID).Str("destination", req.Destination).Err(err).Msg("relay post failed")
		return res, fmt.Errorf("relay post: %w", err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused; the body itself is not inspected
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.StatusCode = resp.StatusCode
	outcome := "delivered"
	if !res.Delivered() {
		outcome = "rejected"
	}
	metrics.ObserveRelay(outcome, res.Duration)
	l.Info().
		Str("attempt_id", res.AttemptID).
		Str("destination", req.Destination).
		Int("status", res.StatusCode).
		Int("bytes", len(req.Payload)).
		Dur("duration", res.Duration).
		Msg("relay post")
	return res, nil
}
