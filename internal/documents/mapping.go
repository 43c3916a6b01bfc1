package documents

import (
	"net/url"

	"github.com/kevinnadar22/metar-verify/pkg/query"
	"github.com/kevinnadar22/metar-verify/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("domain", "Domain").
	Project("kind", "Kind").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Domain, Kind, and ContentType use exact matching;
// Filename uses case-insensitive contains matching.
type Filters struct {
	Domain      *Domain `json:"domain,omitempty"`
	Kind        *Kind   `json:"kind,omitempty"`
	Filename    *string `json:"filename,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Domain", f.Domain).
		WhereEquals("Kind", f.Kind).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("domain"); d != "" {
		domain := Domain(d)
		f.Domain = &domain
	}

	if k := values.Get("kind"); k != "" {
		kind := Kind(k)
		f.Kind = &kind
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Domain,
		&d.Kind,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
