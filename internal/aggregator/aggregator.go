package aggregator

import (
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const DefaultLenientFailureRatio = 0.6

// Decision is the reduced outcome of one validation round.
type Decision struct {
	Passed     bool
	Failed     []models.ValidationType
	Confidence float64
}

// Aggregator reduces per-validator verdicts under an enforcement level.
// Parallel and sequential runs share it so both produce the same decision.
type Aggregator struct {
	Level               models.EnforcementLevel
	LenientFailureRatio float64
	logger              *zerolog.Logger
}

func NewAggregator(level models.EnforcementLevel, lenientFailureRatio float64, logger *zerolog.Logger) *Aggregator {
	if lenientFailureRatio <= 0 {
		lenientFailureRatio = DefaultLenientFailureRatio
	}
	return &Aggregator{
		Level:               level,
		LenientFailureRatio: lenientFailureRatio,
		logger:              logger,
	}
}

func (a *Aggregator) Aggregate(verdicts map[models.ValidationType]models.ValidatorVerdict) Decision {
	decision := Decision{}

	var confidenceSum float64
	critical := false
	for _, t := range models.AllValidationTypes {
		v, ok := verdicts[t]
		if !ok {
			continue
		}
		confidenceSum += v.Confidence
		if !v.Passed {
			decision.Failed = append(decision.Failed, t)
			if t.IsCritical() {
				critical = true
			}
		}
	}
	if len(verdicts) > 0 {
		decision.Confidence = confidenceSum / float64(len(verdicts))
	}

	switch a.Level {
	case models.LevelDisabled:
		decision.Passed = true
	case models.LevelStrict:
		decision.Passed = len(decision.Failed) == 0
	case models.LevelModerate:
		decision.Passed = !critical
	case models.LevelLenient:
		// a lenient round is never stricter than a moderate one
		decision.Passed = !critical || a.failureRatio(len(decision.Failed), len(verdicts)) < a.LenientFailureRatio
	default:
		decision.Passed = false
	}

	a.logger.Info().
		Str("level", string(a.Level)).
		Int("validators", len(verdicts)).
		Int("failed", len(decision.Failed)).
		Float64("confidence", decision.Confidence).
		Bool("passed", decision.Passed).
		Msg("aggregation complete")

	return decision
}

func (a *Aggregator) failureRatio(failed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total)
}
