package verifications

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/internal/documents"
)

var (
	icaoPattern    = regexp.MustCompile(`^[A-Z]{4}$`)
	stationPattern = regexp.MustCompile(`^\d{5}$`)
)

// ValidationError reports the first request field that failed validation.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SubmitRequest is the JSON body for starting a verification run. Documents
// are referenced by the ids returned from the documents endpoints.
type SubmitRequest struct {
	StationCode           string     `json:"station_code"`
	StartTime             *time.Time `json:"start_time,omitempty"`
	EndTime               *time.Time `json:"end_time,omitempty"`
	ForecastDocumentID    uuid.UUID  `json:"forecast_document_id"`
	ObservationDocumentID *uuid.UUID `json:"observation_document_id,omitempty"`
}

// Validate normalizes and checks the request for the given domain. An
// uploaded observation document takes precedence over a time range: when
// both are supplied the range is cleared rather than rejected.
func (r *SubmitRequest) Validate(domain documents.Domain) error {
	r.StationCode = strings.ToUpper(strings.TrimSpace(r.StationCode))

	if err := r.validateStation(domain); err != nil {
		return err
	}

	if r.ForecastDocumentID == uuid.Nil {
		return &ValidationError{Field: "forecast_document_id", Reason: "a forecast document is required"}
	}

	if r.ObservationDocumentID != nil {
		r.StartTime = nil
		r.EndTime = nil
		return nil
	}

	return r.validateTimeRange(domain)
}

func (r *SubmitRequest) validateStation(domain documents.Domain) error {
	switch domain {
	case documents.DomainUpperAir:
		if !stationPattern.MatchString(r.StationCode) {
			return &ValidationError{Field: "station_code", Reason: "must be a 5-digit WMO station number"}
		}
	default:
		if !icaoPattern.MatchString(r.StationCode) {
			return &ValidationError{Field: "station_code", Reason: "must be a 4-letter ICAO code"}
		}
	}
	return nil
}

func (r *SubmitRequest) validateTimeRange(domain documents.Domain) error {
	switch domain {
	case documents.DomainWarning:
		// Warning verification needs neither a range nor an observation;
		// the engine derives the window from the warning log itself.
		return nil
	case documents.DomainUpperAir:
		if r.StartTime == nil {
			return &ValidationError{Field: "start_time", Reason: "a sounding time is required without an observation file"}
		}
		return nil
	}

	if r.StartTime == nil || r.EndTime == nil {
		return &ValidationError{Field: "start_time", Reason: "a time range is required without an observation file"}
	}
	if !r.EndTime.After(*r.StartTime) {
		return &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	return nil
}
