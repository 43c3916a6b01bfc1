package verifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/workflow"
)

// Status tracks a verification run through the workflow.
type Status string

const (
	StatusPending           Status = "pending"
	StatusAcquiring         Status = Status(workflow.StatusAcquiring)
	StatusSubmitting        Status = Status(workflow.StatusSubmitting)
	StatusAwaitingArtifacts Status = Status(workflow.StatusAwaitingArtifacts)
	StatusParsingArtifacts  Status = Status(workflow.StatusParsingArtifacts)
	StatusRendered          Status = Status(workflow.StatusRendered)
	StatusError             Status = "error"
	StatusReset             Status = "reset"
)

// Valid reports whether s is a recognized run status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAcquiring, StatusSubmitting,
		StatusAwaitingArtifacts, StatusParsingArtifacts,
		StatusRendered, StatusError, StatusReset:
		return true
	}
	return false
}

// Terminal reports whether the run has finished.
func (s Status) Terminal() bool {
	switch s {
	case StatusRendered, StatusError, StatusReset:
		return true
	}
	return false
}

// Report aliases the workflow's rendered report; it is persisted on the run
// as JSON.
type Report = workflow.Report

// Run is a persisted verification workflow instance. Reports are recomputed
// per run; a new submission for the same domain supersedes the prior run.
type Run struct {
	ID                    uuid.UUID        `json:"id"`
	Domain                documents.Domain `json:"domain"`
	StationCode           string           `json:"station_code"`
	StartTime             *time.Time       `json:"start_time,omitempty"`
	EndTime               *time.Time       `json:"end_time,omitempty"`
	ForecastDocumentID    uuid.UUID        `json:"forecast_document_id"`
	ObservationDocumentID *uuid.UUID       `json:"observation_document_id,omitempty"`
	Status                Status           `json:"status"`
	Error                 string           `json:"error,omitempty"`
	Report                *Report          `json:"report,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}
