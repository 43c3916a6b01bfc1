package verifications_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/verifications"
)

func ptr[T any](v T) *T { return &v }

func validRequest() verifications.SubmitRequest {
	return verifications.SubmitRequest{
		StationCode:        "VABB",
		StartTime:          ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		EndTime:            ptr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		ForecastDocumentID: uuid.New(),
	}
}

func TestValidateSurface(t *testing.T) {
	req := validRequest()
	if err := req.Validate(documents.DomainSurface); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateNormalizesStation(t *testing.T) {
	req := validRequest()
	req.StationCode = "  vabb "

	if err := req.Validate(documents.DomainSurface); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.StationCode != "VABB" {
		t.Errorf("StationCode = %q, want VABB", req.StationCode)
	}
}

func TestValidateStationPatterns(t *testing.T) {
	tests := []struct {
		name    string
		domain  documents.Domain
		station string
		wantOK  bool
	}{
		{"surface icao", documents.DomainSurface, "VABB", true},
		{"surface too short", documents.DomainSurface, "VAB", false},
		{"surface digits", documents.DomainSurface, "1234", false},
		{"warning icao", documents.DomainWarning, "VIDP", true},
		{"upper air wmo number", documents.DomainUpperAir, "43003", true},
		{"upper air letters", documents.DomainUpperAir, "VABB", false},
		{"upper air short number", documents.DomainUpperAir, "4300", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.StationCode = tt.station

			err := req.Validate(tt.domain)
			if tt.wantOK && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.wantOK {
				var validation *verifications.ValidationError
				if !errors.As(err, &validation) || validation.Field != "station_code" {
					t.Errorf("Validate() error = %v, want station_code validation error", err)
				}
			}
		})
	}
}

func TestValidateRequiresForecast(t *testing.T) {
	req := validRequest()
	req.ForecastDocumentID = uuid.Nil

	var validation *verifications.ValidationError
	if err := req.Validate(documents.DomainSurface); !errors.As(err, &validation) {
		t.Fatalf("Validate() error = %v, want validation error", err)
	} else if validation.Field != "forecast_document_id" {
		t.Errorf("Field = %q, want forecast_document_id", validation.Field)
	}
}

func TestValidateObservationWinsOverRange(t *testing.T) {
	req := validRequest()
	req.ObservationDocumentID = ptr(uuid.New())

	if err := req.Validate(documents.DomainSurface); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// The uploaded observation takes precedence: the range is cleared, not rejected.
	if req.StartTime != nil || req.EndTime != nil {
		t.Errorf("time range = %v-%v, want cleared", req.StartTime, req.EndTime)
	}
}

func TestValidateRangeRequiredWithoutObservation(t *testing.T) {
	req := validRequest()
	req.StartTime = nil
	req.EndTime = nil

	var validation *verifications.ValidationError
	if err := req.Validate(documents.DomainSurface); !errors.As(err, &validation) {
		t.Fatalf("Validate() error = %v, want validation error", err)
	}
}

func TestValidateEndBeforeStart(t *testing.T) {
	req := validRequest()
	req.EndTime = ptr(req.StartTime.Add(-time.Hour))

	var validation *verifications.ValidationError
	if err := req.Validate(documents.DomainSurface); !errors.As(err, &validation) {
		t.Fatalf("Validate() error = %v, want validation error", err)
	} else if validation.Field != "end_time" {
		t.Errorf("Field = %q, want end_time", validation.Field)
	}
}

func TestValidateUpperAirNeedsStartOnly(t *testing.T) {
	req := validRequest()
	req.StationCode = "43003"
	req.EndTime = nil

	if err := req.Validate(documents.DomainUpperAir); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	req.StartTime = nil
	var validation *verifications.ValidationError
	if err := req.Validate(documents.DomainUpperAir); !errors.As(err, &validation) {
		t.Fatalf("Validate() error = %v, want validation error", err)
	}
}

func TestValidateWarningNeedsNoRange(t *testing.T) {
	req := validRequest()
	req.StartTime = nil
	req.EndTime = nil

	if err := req.Validate(documents.DomainWarning); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
