package api

import (
	"net/http"

	"github.com/kevinnadar22/metar-verify/internal/config"
	"github.com/kevinnadar22/metar-verify/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Verifications.Handler().Routes(),
		domain.Observations.Handler().Routes(),
	)
}
