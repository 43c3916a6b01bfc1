package verifications

import (
	"database/sql"
	"encoding/json"
	"net/url"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/pkg/query"
	"github.com/kevinnadar22/metar-verify/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "verification_runs", "vr").
	Project("id", "ID").
	Project("domain", "Domain").
	Project("station_code", "StationCode").
	Project("start_time", "StartTime").
	Project("end_time", "EndTime").
	Project("forecast_document_id", "ForecastDocumentID").
	Project("observation_document_id", "ObservationDocumentID").
	Project("status", "Status").
	Project("error", "Error").
	Project("report", "Report").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries. Nil fields
// are ignored; StationCode uses case-insensitive contains matching.
type Filters struct {
	Domain      *documents.Domain `json:"domain,omitempty"`
	Status      *Status           `json:"status,omitempty"`
	StationCode *string           `json:"station_code,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Domain", f.Domain).
		WhereEquals("Status", f.Status).
		WhereContains("StationCode", f.StationCode)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("domain"); d != "" {
		domain := documents.Domain(d)
		f.Domain = &domain
	}

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if sc := values.Get("station_code"); sc != "" {
		f.StationCode = &sc
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var (
		run       Run
		errText   sql.NullString
		reportRaw []byte
	)

	err := s.Scan(
		&run.ID,
		&run.Domain,
		&run.StationCode,
		&run.StartTime,
		&run.EndTime,
		&run.ForecastDocumentID,
		&run.ObservationDocumentID,
		&run.Status,
		&errText,
		&reportRaw,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return run, err
	}

	if errText.Valid {
		run.Error = errText.String
	}

	if len(reportRaw) > 0 {
		var report Report
		if err := json.Unmarshal(reportRaw, &report); err != nil {
			return run, err
		}
		run.Report = &report
	}

	return run, nil
}
