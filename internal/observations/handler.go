package observations

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/pkg/handlers"
	"github.com/kevinnadar22/metar-verify/pkg/routes"
)

// ErrMissingParams signals required query parameters were not supplied.
var ErrMissingParams = errors.New("missing required query parameters")

// Handler provides HTTP endpoints for observation previews.
type Handler struct {
	sys    System
	logger *slog.Logger
}

type previewResponse struct {
	Data string `json:"data"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "observations"),
	}
}

// Routes returns the route group definition for observation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/observations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/metar", Handler: h.Metar},
			{Method: "GET", Pattern: "/upperair", Handler: h.UpperAir},
		},
	}
}

// Metar returns raw METAR text for a station over a compact time range.
func (h *Handler) Metar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startDate := query.Get("start_date")
	endDate := query.Get("end_date")
	icao := query.Get("icao")

	if startDate == "" || endDate == "" || icao == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingParams)
		return
	}

	data, err := h.sys.Metar(r.Context(), startDate, endDate, icao)
	if err != nil {
		handlers.RespondError(w, h.logger, engine.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, previewResponse{Data: data})
}

// UpperAir returns raw upper-air sounding text for a station at a given time.
func (h *Handler) UpperAir(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	datetime := query.Get("datetime")
	stationID := query.Get("station_id")

	if datetime == "" || stationID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingParams)
		return
	}

	data, err := h.sys.UpperAir(r.Context(), datetime, stationID)
	if err != nil {
		handlers.RespondError(w, h.logger, engine.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, previewResponse{Data: data})
}
