package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/kevinnadar22/metar-verify/internal/classify"
	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/internal/extract"
	"github.com/kevinnadar22/metar-verify/pkg/tabular"
)

// ReportNode returns a state node that assembles the rendered report from
// the engine outcome and any parsed artifacts. Upper-air runs additionally
// extract wind level records from the forecast PDF; warning runs classify
// the inline report onto the fixed warning-element taxonomy.
func ReportNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sub, err := extractSubmission(s)
		if err != nil {
			return s, fmt.Errorf("report: %w", err)
		}

		out, err := extractOutcome(s)
		if err != nil {
			return s, fmt.Errorf("report: %w: %w", ErrReportFailed, err)
		}

		report := Report{
			Metadata:      out.Metadata,
			ScalarMetrics: out.Scalars,
			Tables:        extractTables(s),
			StationInfo:   out.StationInfo,
			RawData:       out.RawData,
		}

		switch sub.Domain {
		case documents.DomainSurface:
			report.Title = surfaceTitle(out.Metadata)
		case documents.DomainUpperAir:
			if err := renderUpperAir(ctx, rt, sub, s, &report); err != nil {
				return s, fmt.Errorf("report: %w", err)
			}
		case documents.DomainWarning:
			if err := renderWarnings(ctx, rt, sub, out, &report); err != nil {
				return s, fmt.Errorf("report: %w", err)
			}
		}

		rt.Logger.InfoContext(
			ctx, "report node complete",
			"run_id", sub.RunID,
			"domain", sub.Domain,
			"metrics", len(report.ScalarMetrics),
		)

		s = s.Set(KeyReport, report)
		return s, nil
	})
}

func surfaceTitle(meta engine.Metadata) string {
	title := "VERIFICATION RESULT OF TAKE-OFF FORECAST " + meta.ICAO
	if meta.StartTime != "" && meta.EndTime != "" {
		title += fmt.Sprintf(" %s TO %s", meta.StartTime, meta.EndTime)
	}
	return title
}

func renderUpperAir(ctx context.Context, rt *Runtime, sub Submission, s state.State, report *Report) error {
	inputs, err := extractInputs(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReportFailed, err)
	}

	// a forecast without an upper-winds block only loses the winds table;
	// the verification result itself still renders
	levels, err := extract.ExtractUpperWinds(ctx, inputs.ForecastData)
	switch {
	case errors.Is(err, extract.ErrBlockNotFound):
		rt.Logger.WarnContext(
			ctx, "no upper winds block in forecast document",
			"run_id", sub.RunID,
		)
	case err != nil:
		return fmt.Errorf("extract upper winds: %w", err)
	default:
		report.WindLevels = levels
	}

	meta := report.Metadata
	report.Title = fmt.Sprintf(
		"UPPER AIR FORECAST VERIFICATION RESULTS FOR %s (%s) FROM %s TO %s",
		meta.StationID, meta.ICAO, meta.StartTime, meta.EndTime,
	)
	return nil
}

func renderWarnings(
	ctx context.Context,
	rt *Runtime,
	sub Submission,
	out outcome,
	report *Report,
) error {
	table := tabular.Parse(out.Report)
	if table.IsEmpty() {
		return fmt.Errorf("%w: empty warning report", ErrReportFailed)
	}

	aggregates := classify.Classify(table)
	report.WarningTable = classify.RenderOntoTaxonomy(aggregates, out.Overrides)
	report.Tables = append(report.Tables, NamedTable{Name: "adwrn_report", Table: table})
	report.Title = "AERODROME WARNING VERIFICATION RESULTS " + sub.StationCode
	report.ScalarMetrics = warningScalars(aggregates, out.Overrides)

	archiveArtifact(ctx, rt, sub, artifactRef{Name: "adwrn_report"}, []byte(out.Report))
	return nil
}

// warningScalars resolves a numeric accuracy per category: an engine
// override wins, otherwise the locally derived ratio applies. Categories
// with no warnings and no override are omitted.
func warningScalars(
	aggregates map[classify.Category]*classify.Aggregate,
	overrides classify.Overrides,
) map[string]float64 {
	scalars := make(map[string]float64)

	for category, agg := range aggregates {
		if v, ok := overrides[category]; ok {
			scalars[string(category)] = v
			continue
		}
		if agg.TotalCount > 0 {
			ratio := float64(agg.MatchedCount) / float64(agg.TotalCount) * 100
			scalars[string(category)] = math.Round(ratio)
		}
	}

	return scalars
}

func extractTables(s state.State) []NamedTable {
	val, ok := s.Get(KeyTables)
	if !ok {
		return nil
	}

	tables, ok := val.([]NamedTable)
	if !ok {
		return nil
	}

	return tables
}

func extractReport(s state.State) (Report, error) {
	val, ok := s.Get(KeyReport)
	if !ok {
		return Report{}, fmt.Errorf("missing %s in final state", KeyReport)
	}

	report, ok := val.(Report)
	if !ok {
		return Report{}, fmt.Errorf("%s is not Report", KeyReport)
	}

	return report, nil
}
