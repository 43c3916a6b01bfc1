package documents

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Content streams the document's stored bytes. The caller must close
	// the reader.
	Content(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error)
	// Preview returns a short textual preview of the document.
	Preview(ctx context.Context, id uuid.UUID) (*Preview, error)
}
