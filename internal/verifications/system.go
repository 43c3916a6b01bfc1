package verifications

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/pkg/pagination"
)

// System defines the verification run lifecycle. Submit starts the workflow
// asynchronously; run progress is observed through Find.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)

	// Submit validates the request, records a pending run, and launches the
	// verification workflow in the background. Any in-flight run for the
	// same domain is cancelled and superseded.
	Submit(ctx context.Context, domain documents.Domain, req SubmitRequest) (*Run, error)

	// Reset cancels the domain's in-flight workflow and returns the run to
	// an idle state, clearing any retained error and report.
	Reset(ctx context.Context, id uuid.UUID) (*Run, error)

	// Artifact streams an archived run artifact from blob storage. The
	// caller must close the reader.
	Artifact(ctx context.Context, id uuid.UUID, name string) (*Run, io.ReadCloser, error)
}
