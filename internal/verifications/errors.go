package verifications

import (
	"errors"
	"net/http"

	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/internal/workflow"
)

// Domain errors for verification run operations.
var (
	ErrNotFound      = errors.New("verification run not found")
	ErrDuplicate     = errors.New("verification run already exists")
	ErrInvalidDomain = errors.New("unknown verification domain")
	ErrInvalidRun    = errors.New("invalid verification run")
)

// MapHTTPStatus maps verification errors, including the engine and workflow
// errors a submission can surface, to HTTP status codes.
func MapHTTPStatus(err error) int {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidDomain) || errors.Is(err, ErrInvalidRun) {
		return http.StatusBadRequest
	}
	if errors.Is(err, workflow.ErrTooSoon) {
		return http.StatusTooManyRequests
	}
	if status := engine.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}
