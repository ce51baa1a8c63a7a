package model

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the JSON body returned by every API endpoint.
// Errors is non-nil only when Status is StatusError; Data is nil in that case.
type Envelope struct {
	Errors  any    `json:"errors"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Success builds a success envelope around data.
func Success(message string, data any) Envelope {
	return Envelope{
		Errors:  nil,
		Data:    data,
		Message: message,
		Status:  StatusSuccess,
	}
}

// Failure builds an error envelope. An empty message is filled from errors when
// errors is a plain string. error values are flattened to their text so they
// survive JSON encoding.
func Failure(message string, errs any) Envelope {
	if e, ok := errs.(error); ok {
		errs = e.Error()
	}
	if message == "" {
		if s, ok := errs.(string); ok {
			message = s
		}
	}
	return Envelope{
		Errors:  errs,
		Data:    nil,
		Message: message,
		Status:  StatusError,
	}
}

// OK reports whether the envelope describes a successful operation.
func (e Envelope) OK() bool { return e.Status == StatusSuccess }
