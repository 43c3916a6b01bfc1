package verifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/internal/workflow"
	"github.com/kevinnadar22/metar-verify/pkg/pagination"
	"github.com/kevinnadar22/metar-verify/pkg/query"
	"github.com/kevinnadar22/metar-verify/pkg/repository"
	"github.com/kevinnadar22/metar-verify/pkg/storage"
)

// submitDebounce rejects re-submission for a domain inside this window; a
// later submission cancels the in-flight run instead.
const submitDebounce = 500 * time.Millisecond

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	tracker    *workflow.Tracker
	documents  documents.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a verification repository implementing the System interface.
// It internally constructs the workflow runtime from the provided dependencies.
func New(
	db *sql.DB,
	client *engine.Client,
	logger *slog.Logger,
	pagination pagination.Config,
	store storage.System,
	docs documents.System,
	metrics *workflow.Metrics,
	clock clockwork.Clock,
) System {
	rt := &workflow.Runtime{
		Engine:    client,
		Storage:   store,
		Documents: docs,
		Logger:    logger.With("workflow", "verify"),
		Clock:     clock,
		Metrics:   metrics,
	}
	return &repo{
		db:         db,
		rt:         rt,
		tracker:    workflow.NewTracker(clock, submitDebounce),
		documents:  docs,
		logger:     logger.With("system", "verifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "StationCode")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count verification runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query verification runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Submit(
	ctx context.Context,
	domain documents.Domain,
	req SubmitRequest,
) (*Run, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	if err := req.Validate(domain); err != nil {
		return nil, err
	}

	if err := r.checkDocuments(ctx, domain, req); err != nil {
		return nil, err
	}

	runCtx, token, err := r.tracker.Begin(string(domain))
	if err != nil {
		return nil, err
	}

	run, err := r.insert(ctx, domain, req)
	if err != nil {
		r.tracker.Finish(string(domain), token)
		return nil, err
	}

	go r.execute(runCtx, token, run)

	return run, nil
}

func (r *repo) Reset(ctx context.Context, id uuid.UUID) (*Run, error) {
	run, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.tracker.Cancel(string(run.Domain))

	resetQ := `
		UPDATE verification_runs
		SET status = $2, error = NULL, report = NULL, updated_at = NOW()
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, resetQ, id, StatusReset); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("verification run reset", "id", id, "domain", run.Domain)

	return r.Find(ctx, id)
}

func (r *repo) Artifact(
	ctx context.Context,
	id uuid.UUID,
	name string,
) (*Run, io.ReadCloser, error) {
	run, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	key := fmt.Sprintf("runs/%s/%s.csv", run.ID, name)
	reader, err := r.rt.Storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: artifact %q", ErrNotFound, name)
		}
		return nil, nil, fmt.Errorf("download artifact %q: %w", name, err)
	}

	return run, reader, nil
}

// checkDocuments verifies the referenced documents exist and belong to the
// submitted domain with the expected kind.
func (r *repo) checkDocuments(
	ctx context.Context,
	domain documents.Domain,
	req SubmitRequest,
) error {
	forecast, err := r.documents.Find(ctx, req.ForecastDocumentID)
	if err != nil {
		return &ValidationError{Field: "forecast_document_id", Reason: "document not found"}
	}
	if forecast.Domain != domain || forecast.Kind != documents.KindForecast {
		return &ValidationError{Field: "forecast_document_id", Reason: "document is not a forecast for this domain"}
	}

	if req.ObservationDocumentID == nil {
		return nil
	}

	observation, err := r.documents.Find(ctx, *req.ObservationDocumentID)
	if err != nil {
		return &ValidationError{Field: "observation_document_id", Reason: "document not found"}
	}
	if observation.Domain != domain || observation.Kind != documents.KindObservation {
		return &ValidationError{Field: "observation_document_id", Reason: "document is not an observation for this domain"}
	}

	return nil
}

func (r *repo) insert(
	ctx context.Context,
	domain documents.Domain,
	req SubmitRequest,
) (*Run, error) {
	id := uuid.New()

	insertQ := `
		INSERT INTO verification_runs(
			id, domain, station_code, start_time, end_time,
			forecast_document_id, observation_document_id, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	run := Run{
		ID:                    id,
		Domain:                domain,
		StationCode:           req.StationCode,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		ForecastDocumentID:    req.ForecastDocumentID,
		ObservationDocumentID: req.ObservationDocumentID,
		Status:                StatusPending,
	}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		err := tx.QueryRowContext(
			ctx, insertQ,
			run.ID, run.Domain, run.StationCode, run.StartTime, run.EndTime,
			run.ForecastDocumentID, run.ObservationDocumentID, run.Status,
		).Scan(&run.CreatedAt, &run.UpdatedAt)
		return run, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &created, nil
}

// execute drives the workflow for a run and persists its outcome. It runs
// on a background goroutine detached from the submitting request.
func (r *repo) execute(ctx context.Context, token uint64, run *Run) {
	defer r.tracker.Finish(string(run.Domain), token)

	rt := *r.rt
	rt.Transition = func(ctx context.Context, status string) {
		r.persistStatus(ctx, run.ID, Status(status))
	}

	sub := workflow.Submission{
		RunID:                 run.ID,
		Domain:                run.Domain,
		StationCode:           run.StationCode,
		ForecastDocumentID:    run.ForecastDocumentID,
		ObservationDocumentID: run.ObservationDocumentID,
	}
	if run.StartTime != nil {
		sub.StartTime = *run.StartTime
	}
	if run.EndTime != nil {
		sub.EndTime = *run.EndTime
	}

	result, err := workflow.Execute(ctx, &rt, sub)
	if err != nil {
		r.persistFailure(ctx, run, err)
		return
	}

	r.persistReport(ctx, run.ID, &result.Report)
}

func (r *repo) persistStatus(ctx context.Context, id uuid.UUID, status Status) {
	updateQ := `
		UPDATE verification_runs
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	ctx = context.WithoutCancel(ctx)
	if err := repository.ExecExpectOne(ctx, r.db, updateQ, id, status); err != nil {
		r.logger.Warn("persist run status", "id", id, "status", status, "error", err)
	}
}

func (r *repo) persistReport(ctx context.Context, id uuid.UUID, report *Report) {
	raw, err := json.Marshal(report)
	if err != nil {
		r.logger.Error("marshal run report", "id", id, "error", err)
		return
	}

	updateQ := `
		UPDATE verification_runs
		SET status = $2, error = NULL, report = $3, updated_at = NOW()
		WHERE id = $1`

	ctx = context.WithoutCancel(ctx)
	if err := repository.ExecExpectOne(ctx, r.db, updateQ, id, StatusRendered, raw); err != nil {
		r.logger.Error("persist run report", "id", id, "error", err)
		return
	}

	r.logger.Info("verification run rendered", "id", id)
}

// persistFailure records the run outcome. A run cancelled by a newer
// submission or an explicit reset is marked reset rather than failed; engine
// failures are recorded verbatim.
func (r *repo) persistFailure(ctx context.Context, run *Run, cause error) {
	status := StatusError
	message := cause.Error()
	if errors.Is(cause, context.Canceled) {
		status = StatusReset
		message = "superseded by a new submission"
	}

	updateQ := `
		UPDATE verification_runs
		SET status = $2, error = $3, updated_at = NOW()
		WHERE id = $1`

	ctx = context.WithoutCancel(ctx)
	if err := repository.ExecExpectOne(ctx, r.db, updateQ, run.ID, status, message); err != nil {
		r.logger.Error("persist run failure", "id", run.ID, "error", err)
		return
	}

	r.logger.Warn(
		"verification run failed",
		"id", run.ID,
		"domain", run.Domain,
		"status", status,
		"cause", message,
	)
}
