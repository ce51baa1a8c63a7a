// Package respond writes the JSON envelope shared by every endpoint.
package respond

import (
	"encoding/json"
	"net/http"

	"telegram-gateway/internal/domain/model"
)

const (
	// DefaultErrorStatus is used by WriteError when code is 0.
	DefaultErrorStatus = http.StatusUnprocessableEntity
	// ErrorMessage is the message of every failed operation; the detail goes in errors.
	ErrorMessage = "An error occurred"
)

// WriteSuccess writes a success envelope. code 0 means 200.
func WriteSuccess(w http.ResponseWriter, code int, message string, data any) {
	if code == 0 {
		code = http.StatusOK
	}
	WriteEnvelope(w, code, model.Success(message, data))
}

// WriteError writes an error envelope. code 0 means 422.
func WriteError(w http.ResponseWriter, code int, message string, errs any) {
	if code == 0 {
		code = DefaultErrorStatus
	}
	WriteEnvelope(w, code, model.Failure(message, errs))
}

// WriteEnvelope encodes env with the given status. The status never depends on the envelope.
func WriteEnvelope(w http.ResponseWriter, code int, env model.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}
