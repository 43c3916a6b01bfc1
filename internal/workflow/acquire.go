package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/kevinnadar22/metar-verify/internal/documents"
)

// AcquireNode returns a state node that loads the submission's forecast and
// observation documents from blob storage into memory.
func AcquireNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sub, err := extractSubmission(s)
		if err != nil {
			return s, fmt.Errorf("acquire: %w", err)
		}

		rt.transition(ctx, StatusAcquiring)

		forecast, forecastData, err := fetchDocument(ctx, rt, sub.ForecastDocumentID)
		if err != nil {
			return s, fmt.Errorf("acquire: forecast: %w", err)
		}

		inputs := inputSet{
			Forecast:     forecast,
			ForecastData: forecastData,
		}

		if sub.ObservationDocumentID != nil {
			observation, observationData, err := fetchDocument(ctx, rt, *sub.ObservationDocumentID)
			if err != nil {
				return s, fmt.Errorf("acquire: observation: %w", err)
			}
			inputs.Observation = observation
			inputs.ObservationData = observationData
		}

		rt.Logger.InfoContext(
			ctx, "acquire node complete",
			"run_id", sub.RunID,
			"forecast", forecast.Filename,
			"has_observation", inputs.Observation != nil,
		)

		s = s.Set(KeyInputs, inputs)
		return s, nil
	})
}

func fetchDocument(
	ctx context.Context,
	rt *Runtime,
	id uuid.UUID,
) (*documents.Document, []byte, error) {
	doc, body, err := rt.Documents.Content(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrAcquireFailed, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %w", ErrAcquireFailed, doc.Filename, err)
	}

	return doc, data, nil
}

func extractSubmission(s state.State) (Submission, error) {
	val, ok := s.Get(KeySubmission)
	if !ok {
		return Submission{}, fmt.Errorf("%w: missing %s in state", ErrAcquireFailed, KeySubmission)
	}

	sub, ok := val.(Submission)
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s is not Submission", ErrAcquireFailed, KeySubmission)
	}

	return sub, nil
}

func extractInputs(s state.State) (inputSet, error) {
	val, ok := s.Get(KeyInputs)
	if !ok {
		return inputSet{}, fmt.Errorf("missing %s in state", KeyInputs)
	}

	inputs, ok := val.(inputSet)
	if !ok {
		return inputSet{}, fmt.Errorf("%s is not inputSet", KeyInputs)
	}

	return inputs, nil
}
