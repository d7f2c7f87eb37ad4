package validators

import (
	"context"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

// Validator scores one quality dimension of a response. Implementations
// degrade to heuristics when no judge is configured and report internal
// failures as errors rather than panicking.
type Validator interface {
	Type() models.ValidationType
	Validate(ctx context.Context, req models.ValidationRequest) (models.ValidatorVerdict, error)
}

// weighted is one component of a blended score.
type weighted struct {
	score  float64
	weight float64
}

// blend averages the available components, renormalizing their weights.
func blend(components []weighted) float64 {
	var sum, total float64
	for _, c := range components {
		sum += c.score * c.weight
		total += c.weight
	}
	if total == 0 {
		return 0
	}
	return clamp01(sum / total)
}
