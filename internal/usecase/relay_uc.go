package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"telegram-gateway/internal/domain"
	"telegram-gateway/internal/domain/model"
	"telegram-gateway/internal/domain/ports/adapter"
	"telegram-gateway/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RelayUseCase = (*relayUC)(nil)

// RelayUseCase forwards inbound webhook payloads to a caller-chosen destination.
type RelayUseCase interface {
	Relay(ctx context.Context, req model.RelayRequest) (model.RelayResult, error)
}

type RelayOptions struct {
	// PropagateStatus turns a non-2xx downstream reply into ErrDownstreamStatus.
	PropagateStatus bool
	// AllowedHosts restricts destinations; empty allows any host.
	AllowedHosts []string
}

type relayUC struct {
	relay   adapter.Relay
	opts    RelayOptions
	allowed map[string]struct{}
	log     *zerolog.Logger
}

func NewRelayUseCase(relay adapter.Relay, opts RelayOptions, logger *zerolog.Logger) *relayUC {
	allowed := make(map[string]struct{}, len(opts.AllowedHosts))
	for _, h := range opts.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = struct{}{}
		}
	}
	return &relayUC{relay: relay, opts: opts, allowed: allowed, log: logger}
}

// Relay makes exactly one forward attempt. Downstream status is ignored unless
// PropagateStatus is set.
func (u *relayUC) Relay(ctx context.Context, req model.RelayRequest) (model.RelayResult, error) {
	defer logging.TraceDuration(u.log, "RelayUC.Relay")()

	req.Destination = strings.TrimSpace(req.Destination)
	if err := u.checkDestination(req.Destination); err != nil {
		return model.RelayResult{}, err
	}

	res, err := u.relay.Forward(ctx, req)
	if err != nil {
		return res, err
	}
	if u.opts.PropagateStatus && !res.Delivered() {
		return res, fmt.Errorf("%w: status %d", domain.ErrDownstreamStatus, res.StatusCode)
	}
	return res, nil
}

func (u *relayUC) checkDestination(raw string) error {
	if raw == "" {
		return domain.ErrMissingDestination
	}
	dest, err := url.Parse(raw)
	if err != nil || dest.Host == "" || (dest.Scheme != "http" && dest.Scheme != "https") {
		return domain.ErrInvalidDestination
	}
	if len(u.allowed) > 0 {
		if _, ok := u.allowed[strings.ToLower(dest.Hostname())]; !ok {
			return domain.ErrDestinationNotAllowed
		}
	}
	return nil
}
