// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/kevinnadar22/metar-verify/internal/config"
	"github.com/kevinnadar22/metar-verify/internal/infrastructure"
	"github.com/kevinnadar22/metar-verify/pkg/middleware"
	"github.com/kevinnadar22/metar-verify/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	requestMetrics := middleware.NewRequestMetrics(infrastructure.MetricsNamespace, infra.Metrics)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Metrics(requestMetrics))

	return m, nil
}
