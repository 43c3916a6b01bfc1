package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoData indicates the remote source has no observations for the
// requested station and time.
var ErrNoData = errors.New("no data available for the selected date/time/station")

// TransportError is a failed engine call. Message carries the engine's own
// error string unmodified so it can be surfaced to the user verbatim.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return e.Message
}

func transportErr(status int, format string, args ...any) *TransportError {
	return &TransportError{
		StatusCode: status,
		Message:    fmt.Sprintf(format, args...),
	}
}

// ValidationError is an engine-side rejection of the submitted inputs, such
// as a station-code mismatch or an out-of-window warning period. Message
// carries the engine's own error string unmodified.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MapHTTPStatus maps engine errors to HTTP status codes for API responses.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoData) {
		return http.StatusNotFound
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var te *TransportError
	if errors.As(err, &te) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
