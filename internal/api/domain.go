package api

import (
	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/observations"
	"github.com/kevinnadar22/metar-verify/internal/verifications"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents     documents.System
	Verifications verifications.System
	Observations  observations.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	verificationsSystem := verifications.New(
		runtime.Database.Connection(),
		runtime.Engine,
		runtime.Logger,
		runtime.Pagination,
		runtime.Storage,
		docsSystem,
		runtime.Workflow,
		runtime.Clock,
	)

	observationsSystem := observations.New(runtime.Engine, runtime.Logger)

	return &Domain{
		Documents:     docsSystem,
		Verifications: verificationsSystem,
		Observations:  observationsSystem,
	}
}
