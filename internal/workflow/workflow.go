package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the verification workflow for a single submission. It builds
// the state graph (acquire → submit → artifacts? → report), executes it, and
// extracts the rendered Report from the final state. Domains whose results
// arrive inline skip the artifacts node.
func Execute(ctx context.Context, rt *Runtime, sub Submission) (*Result, error) {
	started := rt.Clock.Now()

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeySubmission, sub)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		rt.Metrics.observe(string(sub.Domain), "error", rt.Clock.Since(started).Seconds())
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	report, err := extractReport(finalState)
	if err != nil {
		rt.Metrics.observe(string(sub.Domain), "error", rt.Clock.Since(started).Seconds())
		return nil, err
	}

	rt.transition(ctx, StatusRendered)
	rt.Metrics.observe(string(sub.Domain), "success", rt.Clock.Since(started).Seconds())

	return &Result{
		RunID:       sub.RunID,
		Domain:      sub.Domain,
		Report:      report,
		CompletedAt: rt.Clock.Now(),
	}, nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("metar-verify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("acquire", AcquireNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("submit", SubmitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("artifacts", ArtifactsNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("report", ReportNode(rt)); err != nil {
		return nil, err
	}

	// acquire → submit (unconditional)
	if err := graph.AddEdge("acquire", "submit", nil); err != nil {
		return nil, err
	}

	// submit → artifacts (when the engine returned artifact paths)
	if err := graph.AddEdge("submit", "artifacts", hasArtifacts); err != nil {
		return nil, err
	}

	// submit → report (when results arrived inline)
	if err := graph.AddEdge("submit", "report", state.Not(hasArtifacts)); err != nil {
		return nil, err
	}

	// artifacts → report (unconditional)
	if err := graph.AddEdge("artifacts", "report", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("acquire"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("report"); err != nil {
		return nil, err
	}

	return graph, nil
}

func hasArtifacts(s state.State) bool {
	out, err := extractOutcome(s)
	if err != nil {
		return false
	}

	return len(out.Artifacts) > 0
}
