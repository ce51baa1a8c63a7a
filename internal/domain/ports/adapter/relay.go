package adapter

import (
	"context"

	"telegram-gateway/internal/domain/model"
)

// Relay performs one outbound POST of a payload. A non-nil error means the
// request never got an HTTP response; any downstream status is returned in the result.
type Relay interface {
	Forward(ctx context.Context, req model.RelayRequest) (model.RelayResult, error)
}
