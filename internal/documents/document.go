// Package documents implements the document domain for the verification
// service. It provides types, data access, and business logic for forecast
// and observation upload, registration, preview, and blob storage
// integration.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Domain identifies which verification workflow a document belongs to.
type Domain string

const (
	DomainSurface  Domain = "surface"
	DomainUpperAir Domain = "upperair"
	DomainWarning  Domain = "warning"
)

// Valid reports whether the domain is one of the known workflow domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainSurface, DomainUpperAir, DomainWarning:
		return true
	}
	return false
}

// Kind identifies a document's role within its workflow.
type Kind string

const (
	KindForecast    Kind = "forecast"
	KindObservation Kind = "observation"
)

// Valid reports whether the kind is one of the known document roles.
func (k Kind) Valid() bool {
	return k == KindForecast || k == KindObservation
}

// Document represents a registered document with its metadata and blob
// storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Domain      Domain    `json:"domain"`
	Kind        Kind      `json:"kind"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may be
// extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	Domain      Domain
	Kind        Kind
	PageCount   *int
}

// Preview is a short textual rendering of a document's content for display
// before submission.
type Preview struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}
