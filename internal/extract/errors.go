package extract

import (
	"errors"
	"net/http"
)

var (
	// ErrBlockNotFound indicates the document contains no upper-winds block.
	// Callers treat this as "no data found" rather than a failure.
	ErrBlockNotFound = errors.New("no upper winds data found")
	// ErrUnreadableDocument indicates the document bytes could not be decoded.
	ErrUnreadableDocument = errors.New("document could not be read")
)

// MapHTTPStatus maps extraction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrBlockNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnreadableDocument) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
