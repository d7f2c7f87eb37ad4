package validators

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

// Registry is the closed set of active validators, keyed by type.
type Registry struct {
	validators map[models.ValidationType]Validator
}

func NewRegistry(validators ...Validator) *Registry {
	r := &Registry{validators: make(map[models.ValidationType]Validator, len(validators))}
	for _, v := range validators {
		r.validators[v.Type()] = v
	}
	return r
}

// BuildFromConfig creates every enabled validator. client may be nil, in
// which case judge-backed validators fall back to heuristics.
func BuildFromConfig(cfg config.QualityConfig, client judge.Client, prompts *judge.Prompts, logger *zerolog.Logger) (*Registry, error) {
	if prompts == nil {
		var err error
		if prompts, err = judge.NewPrompts(nil); err != nil {
			return nil, err
		}
	}

	r := NewRegistry()
	for _, name := range cfg.EnabledValidators {
		t, err := models.ParseValidationType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		if _, exists := r.validators[t]; exists {
			continue
		}

		var v Validator
		switch t {
		case models.ValidationRelevance:
			v = NewRelevanceValidator(cfg.RelevanceThreshold, client, prompts, logger)
		case models.ValidationHallucination:
			v = NewHallucinationValidator(cfg.HallucinationThreshold, cfg.EnableFactChecking, client, prompts, logger)
		case models.ValidationSafety:
			v = NewSafetyValidator(cfg.SafetyThreshold, cfg.BlockUnsafeContent, nil, client, prompts, logger)
		case models.ValidationQuality:
			v = NewQualityValidator(cfg.QualityThreshold, cfg.MinResponseLength, cfg.MaxResponseLength, cfg.RequireCoherence, logger)
		}
		r.validators[t] = v

		logger.Info().
			Str("validator", string(t)).
			Bool("judge", client != nil).
			Msg("validator registered")
	}

	if len(r.validators) == 0 {
		return nil, fmt.Errorf("%w: no validators enabled", config.ErrInvalidConfig)
	}
	return r, nil
}

func (r *Registry) Get(t models.ValidationType) (Validator, bool) {
	v, ok := r.validators[t]
	return v, ok
}

// Types returns the registered types in execution order.
func (r *Registry) Types() []models.ValidationType {
	var types []models.ValidationType
	for _, t := range models.AllValidationTypes {
		if _, ok := r.validators[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

func (r *Registry) Len() int {
	return len(r.validators)
}
