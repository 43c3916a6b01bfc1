package workflow

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/pkg/storage"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Engine    *engine.Client
	Storage   storage.System
	Documents documents.System
	Logger    *slog.Logger
	Clock     clockwork.Clock
	Metrics   *Metrics

	// Transition, when set, is invoked as the run advances between states
	// so the caller can persist progress. Failures to persist do not stop
	// the run.
	Transition func(ctx context.Context, status string)
}

func (rt *Runtime) transition(ctx context.Context, status string) {
	if rt.Transition != nil {
		rt.Transition(ctx, status)
	}
}
