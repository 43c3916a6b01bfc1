package workflow

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/internal/classify"
	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/internal/extract"
	"github.com/kevinnadar22/metar-verify/pkg/tabular"
)

const (
	KeySubmission = "submission"
	KeyInputs     = "inputs"
	KeyOutcome    = "outcome"
	KeyTables     = "tables"
	KeyReport     = "report"
)

// Run status values emitted through the Runtime transition hook as the
// graph advances. Persistence of these values belongs to the caller.
const (
	StatusAcquiring         = "acquiring"
	StatusSubmitting        = "submitting"
	StatusAwaitingArtifacts = "awaiting_artifacts"
	StatusParsingArtifacts  = "parsing_artifacts"
	StatusRendered          = "rendered"
)

// Submission identifies the inputs for a single verification run. StartTime
// and EndTime are zero when an observation document supplies the time window.
type Submission struct {
	RunID                 uuid.UUID
	Domain                documents.Domain
	StationCode           string
	StartTime             time.Time
	EndTime               time.Time
	ForecastDocumentID    uuid.UUID
	ObservationDocumentID *uuid.UUID
}

// inputSet holds the acquired verification inputs. Document bytes are kept
// in memory for the duration of the run; forecast documents are bounded by
// the upload size limit.
type inputSet struct {
	Forecast        *documents.Document
	ForecastData    []byte
	Observation     *documents.Document
	ObservationData []byte
}

// artifactRef names an engine-side artifact and its opaque server path.
type artifactRef struct {
	Name string
	Path string
}

// outcome carries the engine response through the graph. Artifacts is empty
// for domains whose results arrive inline (aerodrome warnings).
type outcome struct {
	Metadata    engine.Metadata
	Scalars     map[string]float64
	Artifacts   []artifactRef
	RawData     json.RawMessage
	Report      string
	Overrides   classify.Overrides
	StationInfo string
}

// NamedTable pairs a parsed artifact with the artifact name it came from.
type NamedTable struct {
	Name  string        `json:"name"`
	Table tabular.Table `json:"table"`
}

// Report is the rendered output of a verification run.
type Report struct {
	Title         string                    `json:"title"`
	Metadata      engine.Metadata           `json:"metadata"`
	ScalarMetrics map[string]float64        `json:"scalar_metrics"`
	Tables        []NamedTable              `json:"tables,omitempty"`
	WarningTable  []classify.TaxonomyRow    `json:"warning_table,omitempty"`
	WindLevels    []extract.WindLevelRecord `json:"wind_levels,omitempty"`
	StationInfo   string                    `json:"station_info,omitempty"`
	RawData       json.RawMessage           `json:"raw_data,omitempty"`
}

// Result is the final output from a verification workflow execution.
type Result struct {
	RunID       uuid.UUID        `json:"run_id"`
	Domain      documents.Domain `json:"domain"`
	Report      Report           `json:"report"`
	CompletedAt time.Time        `json:"completed_at"`
}
