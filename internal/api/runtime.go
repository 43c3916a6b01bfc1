package api

import (
	"github.com/jonboulle/clockwork"

	"github.com/kevinnadar22/metar-verify/internal/config"
	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/internal/infrastructure"
	"github.com/kevinnadar22/metar-verify/internal/workflow"
	"github.com/kevinnadar22/metar-verify/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// shared engine client, clock, and workflow metrics.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Engine     *engine.Client
	Clock      clockwork.Clock
	Workflow   *workflow.Metrics
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Metrics:   infra.Metrics,
		},
		Pagination: cfg.API.Pagination,
		Engine:     engine.New(&cfg.Engine, logger),
		Clock:      clockwork.NewRealClock(),
		Workflow:   workflow.NewMetrics(infrastructure.MetricsNamespace, infra.Metrics),
	}
}
