package verifications

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/pkg/handlers"
	"github.com/kevinnadar22/metar-verify/pkg/pagination"
	"github.com/kevinnadar22/metar-verify/pkg/routes"
)

// Handler provides HTTP endpoints for verification runs.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "verifications"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/verifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/artifacts/{name}", Handler: h.Artifact},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{domain}", Handler: h.Submit},
			{Method: "POST", Pattern: "/{id}/reset", Handler: h.Reset},
		},
	}
}

// List returns a paginated list of runs with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single run by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRun)
		return
	}

	run, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, run)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching runs.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRun)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Submit starts a verification run for the domain path parameter and
// responds 202 with the pending run; progress is observed through Find.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	domain := documents.Domain(r.PathValue("domain"))

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRun)
		return
	}

	run, err := h.sys.Submit(r.Context(), domain, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, run)
}

// Reset cancels the run's in-flight workflow and clears its retained state.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRun)
		return
	}

	run, err := h.sys.Reset(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, run)
}

// Artifact streams an archived run artifact as a CSV attachment.
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRun)
		return
	}

	name := r.PathValue("name")

	run, reader, err := h.sys.Artifact(r.Context(), id, name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	filename := ExportFilename(run, name, time.Now())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("stream run artifact", "id", id, "artifact", name, "error", err)
	}
}
