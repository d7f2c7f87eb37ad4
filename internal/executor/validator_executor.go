package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks . ValidatorRunner

// ValidatorRunner runs one registered validator.
type ValidatorRunner interface {
	RunValidator(ctx context.Context, t models.ValidationType, req models.ValidationRequest) (models.ValidatorVerdict, error)
}

type ValidatorExecutor struct {
	runner ValidatorRunner
	logger *zerolog.Logger
}

func NewValidatorExecutor(runner ValidatorRunner, logger *zerolog.Logger) *ValidatorExecutor {
	return &ValidatorExecutor{
		runner: runner,
		logger: logger,
	}
}

var ErrValidatorNotFound = errors.New("validator not found")

// Execute runs the named validator. A non-nil threshold replaces the
// validator's own pass mark; errored verdicts never pass an override.
func (e *ValidatorExecutor) Execute(ctx context.Context, name string, threshold *float64, input models.ValidationInput) (models.ValidatorRun, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	run := models.ValidatorRun{ID: id, Threshold: threshold}

	t, err := models.ParseValidationType(name)
	if err != nil {
		e.logger.Error().Err(err).Str("validator", name).Msg("Validator not found")
		return run, fmt.Errorf("%w: %s", ErrValidatorNotFound, name)
	}
	if threshold != nil && (*threshold < 0 || *threshold > 1) {
		return run, fmt.Errorf("threshold %.2f out of range [0,1]", *threshold)
	}

	e.logger.Info().Str("requestID", id).Str("validator", string(t)).Msg("running validator")

	verdict, err := e.runner.RunValidator(ctx, t, models.ValidationRequest{
		Query:    input.Query,
		Response: input.Content,
		Context:  input.Context,
	})
	if err != nil {
		e.logger.Error().Err(err).Str("validator", string(t)).Msg("Validator not registered")
		return run, fmt.Errorf("%w: %v", ErrValidatorNotFound, err)
	}

	run.Validator = t
	run.Verdict = verdict
	run.Passed = verdict.Passed
	if threshold != nil {
		run.Passed = verdict.Error == "" && verdict.Confidence >= *threshold
	}

	e.logger.Debug().
		Str("requestID", id).
		Str("validator", string(t)).
		Float64("confidence", verdict.Confidence).
		Bool("passed", run.Passed).
		Msg("validator finished")

	return run, nil
}
