package model

import "time"

// WebhookRegistration is returned after a webhook has been registered with Telegram.
type WebhookRegistration struct {
	Token      string `json:"token"`
	WebhookURL string `json:"webhook_url"`
}

// RelayRequest is a payload to forward verbatim to Destination.
type RelayRequest struct {
	Destination string
	ContentType string
	Payload     []byte
}

// RelayResult describes a single forward attempt.
type RelayResult struct {
	AttemptID  string
	StatusCode int
	Duration   time.Duration
}

// Delivered reports whether the downstream answered with a 2xx status.
func (r RelayResult) Delivered() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
