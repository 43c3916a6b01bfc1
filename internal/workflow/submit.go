package workflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/kevinnadar22/metar-verify/internal/classify"
	"github.com/kevinnadar22/metar-verify/internal/documents"
	"github.com/kevinnadar22/metar-verify/internal/engine"
	"github.com/kevinnadar22/metar-verify/pkg/formatting"
)

const upperAirTimeLayout = "2006-01-02 15:00:00"

// SubmitNode returns a state node that submits the acquired inputs to the
// verification engine and records the response as the run outcome. Engine
// failures surface verbatim.
func SubmitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sub, err := extractSubmission(s)
		if err != nil {
			return s, fmt.Errorf("submit: %w", err)
		}

		inputs, err := extractInputs(s)
		if err != nil {
			return s, fmt.Errorf("submit: %w: %w", ErrSubmitFailed, err)
		}

		rt.transition(ctx, StatusSubmitting)

		var out *outcome
		switch sub.Domain {
		case documents.DomainSurface:
			out, err = submitSurface(ctx, rt, sub, inputs)
		case documents.DomainUpperAir:
			out, err = submitUpperAir(ctx, rt, sub, inputs)
		case documents.DomainWarning:
			out, err = submitWarning(ctx, rt, sub, inputs)
		default:
			err = fmt.Errorf("%w: unknown domain %q", ErrSubmitFailed, sub.Domain)
		}
		if err != nil {
			return s, fmt.Errorf("submit: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "submit node complete",
			"run_id", sub.RunID,
			"domain", sub.Domain,
			"artifacts", len(out.Artifacts),
		)

		if len(out.Artifacts) > 0 {
			rt.transition(ctx, StatusAwaitingArtifacts)
		}

		s = s.Set(KeyOutcome, *out)
		return s, nil
	})
}

func submitSurface(
	ctx context.Context,
	rt *Runtime,
	sub Submission,
	inputs inputSet,
) (*outcome, error) {
	startDate, endDate := formatting.FormatCompactRange(sub.StartTime, sub.EndTime)

	result, err := rt.Engine.ProcessMetar(ctx, engine.MetarSubmission{
		ICAO:        sub.StationCode,
		StartDate:   startDate,
		EndDate:     endDate,
		Forecast:    fileUpload(inputs.Forecast, inputs.ForecastData),
		Observation: optionalUpload(inputs.Observation, inputs.ObservationData),
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		Metadata: result.Metadata,
		Scalars: map[string]float64{
			"accuracy": result.Metrics.AccuracyPercentage,
		},
		Artifacts: []artifactRef{
			{Name: "comparison_csv", Path: result.FilePaths.ComparisonCSV},
			{Name: "merged_csv", Path: result.FilePaths.MergedCSV},
		},
	}, nil
}

func submitUpperAir(
	ctx context.Context,
	rt *Runtime,
	sub Submission,
	inputs inputSet,
) (*outcome, error) {
	var datetime string
	if inputs.Observation == nil {
		datetime = sub.StartTime.UTC().Format(upperAirTimeLayout)
	}

	result, err := rt.Engine.ProcessUpperAir(ctx, engine.UpperAirSubmission{
		StationID:   sub.StationCode,
		DateTime:    datetime,
		Forecast:    fileUpload(inputs.Forecast, inputs.ForecastData),
		Observation: optionalUpload(inputs.Observation, inputs.ObservationData),
	})
	if err != nil {
		return nil, err
	}

	return &outcome{
		Metadata: result.Metadata,
		Scalars: map[string]float64{
			"temperature":    result.TempAccuracy,
			"wind":           result.WindAccuracy,
			"wind_direction": result.WindDirAccuracy,
			"weather":        result.WeatherAccuracy,
		},
		Artifacts: []artifactRef{
			{Name: "upper_air_csv", Path: result.FilePath},
		},
		RawData: result.Data,
	}, nil
}

func submitWarning(
	ctx context.Context,
	rt *Runtime,
	sub Submission,
	inputs inputSet,
) (*outcome, error) {
	if _, err := rt.Engine.UploadWarningFile(ctx, fileUpload(inputs.Forecast, inputs.ForecastData)); err != nil {
		return nil, fmt.Errorf("stage warning log: %w", err)
	}

	if inputs.Observation != nil {
		upload := fileUpload(inputs.Observation, inputs.ObservationData)
		if _, err := rt.Engine.UploadWarningFile(ctx, upload); err != nil {
			return nil, fmt.Errorf("stage observation log: %w", err)
		}
	}

	result, err := rt.Engine.VerifyWarnings(ctx)
	if err != nil {
		return nil, err
	}

	overrides := classify.Overrides{}
	if result.DetailedAccuracy.Thunderstorm != nil {
		overrides[classify.CategoryThunderstorm] = *result.DetailedAccuracy.Thunderstorm
	}
	if result.DetailedAccuracy.Wind != nil {
		overrides[classify.CategoryWind] = *result.DetailedAccuracy.Wind
	}

	return &outcome{
		Metadata:    engine.Metadata{ICAO: sub.StationCode},
		Scalars:     map[string]float64{},
		Report:      result.Report,
		Overrides:   overrides,
		StationInfo: result.StationInfo,
	}, nil
}

func fileUpload(doc *documents.Document, data []byte) engine.FileUpload {
	return engine.FileUpload{
		Name:        doc.Filename,
		ContentType: doc.ContentType,
		Reader:      bytes.NewReader(data),
	}
}

func optionalUpload(doc *documents.Document, data []byte) *engine.FileUpload {
	if doc == nil {
		return nil
	}
	upload := fileUpload(doc, data)
	return &upload
}

func extractOutcome(s state.State) (outcome, error) {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return outcome{}, fmt.Errorf("missing %s in state", KeyOutcome)
	}

	out, ok := val.(outcome)
	if !ok {
		return outcome{}, fmt.Errorf("%s is not outcome", KeyOutcome)
	}

	return out, nil
}
