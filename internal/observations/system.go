// Package observations exposes raw observation previews fetched on demand
// from the verification engine, letting a user inspect METAR or upper-air
// data for a window before submitting a verification.
package observations

import (
	"context"
	"log/slog"

	"github.com/kevinnadar22/metar-verify/internal/engine"
)

// System fetches raw observation text from the engine.
type System interface {
	Handler() *Handler

	Metar(ctx context.Context, startDate, endDate, icao string) (string, error)
	UpperAir(ctx context.Context, datetime, stationID string) (string, error)
}

type system struct {
	client *engine.Client
	logger *slog.Logger
}

// New creates an observation preview system backed by the engine client.
func New(client *engine.Client, logger *slog.Logger) System {
	return &system{
		client: client,
		logger: logger.With("system", "observations"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Metar(ctx context.Context, startDate, endDate, icao string) (string, error) {
	return s.client.GetMetar(ctx, startDate, endDate, icao)
}

func (s *system) UpperAir(ctx context.Context, datetime, stationID string) (string, error) {
	return s.client.GetUpperAir(ctx, datetime, stationID)
}
