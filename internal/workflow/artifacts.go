package workflow

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/kevinnadar22/metar-verify/pkg/tabular"
)

// ArtifactsNode returns a state node that downloads each engine artifact in
// order and parses it as tabular text. Retrieval is all-or-nothing: a failed
// fetch or parse discards everything already retrieved and fails the run.
// Fetched artifacts are archived to blob storage alongside the run.
func ArtifactsNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sub, err := extractSubmission(s)
		if err != nil {
			return s, fmt.Errorf("artifacts: %w", err)
		}

		out, err := extractOutcome(s)
		if err != nil {
			return s, fmt.Errorf("artifacts: %w: %w", ErrArtifactsFailed, err)
		}

		tables := make([]NamedTable, 0, len(out.Artifacts))
		for _, ref := range out.Artifacts {
			table, err := fetchArtifact(ctx, rt, sub, ref)
			if err != nil {
				return s, fmt.Errorf("artifacts: %s: %w", ref.Name, err)
			}
			tables = append(tables, *table)
		}

		rt.transition(ctx, StatusParsingArtifacts)

		rt.Logger.InfoContext(
			ctx, "artifacts node complete",
			"run_id", sub.RunID,
			"tables", len(tables),
		)

		s = s.Set(KeyTables, tables)
		return s, nil
	})
}

func fetchArtifact(
	ctx context.Context,
	rt *Runtime,
	sub Submission,
	ref artifactRef,
) (*NamedTable, error) {
	body, err := rt.Engine.DownloadArtifact(ctx, ref.Name, ref.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactsFailed, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %w", ErrArtifactsFailed, err)
	}

	table := tabular.Parse(string(data))
	if table.IsEmpty() {
		return nil, fmt.Errorf("%w: artifact contains no tabular data", ErrArtifactsFailed)
	}

	archiveArtifact(ctx, rt, sub, ref, data)

	return &NamedTable{Name: ref.Name, Table: table}, nil
}

// archiveArtifact persists the raw artifact bytes for later download. Archive
// failures are logged and do not fail the run.
func archiveArtifact(ctx context.Context, rt *Runtime, sub Submission, ref artifactRef, data []byte) {
	key := fmt.Sprintf("runs/%s/%s.csv", sub.RunID, ref.Name)
	if err := rt.Storage.Upload(ctx, key, bytes.NewReader(data), "text/csv"); err != nil {
		rt.Logger.WarnContext(
			ctx, "artifact archive failed",
			"run_id", sub.RunID,
			"artifact", ref.Name,
			"error", err,
		)
	}
}
