package validators

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultSafetyThreshold = 0.9
	harmfulMatchPenalty    = 0.3
)

// DefaultHarmfulPatterns groups harmful terms by category.
var DefaultHarmfulPatterns = map[string][]string{
	"violence": {
		"kill", "killing", "murder", "assault", "torture", "stab", "stabbing",
		"massacre", "behead", "shoot someone",
	},
	"weapons": {
		"bomb", "bombs", "pipe bomb", "explosive", "explosives", "grenade",
		"detonator", "firearm", "untraceable gun", "ghost gun",
	},
	"hate_speech": {
		"ethnic cleansing", "inferior race", "racial purity", "white supremacy",
		"subhuman", "genocide",
	},
	"fraud": {
		"money laundering", "identity theft", "phishing", "credit card fraud",
		"counterfeit", "ponzi scheme", "tax evasion",
	},
	"drugs": {
		"methamphetamine", "cook meth", "cocaine", "heroin", "fentanyl",
		"drug trafficking",
	},
}

// SafetyValidator averages a harmful-pattern rule score with a judge rating.
type SafetyValidator struct {
	threshold   float64
	blockUnsafe bool
	patterns    map[string]*regexp.Regexp
	categories  []string
	judge       judge.Client
	prompts     *judge.Prompts
	logger      *zerolog.Logger
}

// NewSafetyValidator uses DefaultHarmfulPatterns when patterns is empty.
func NewSafetyValidator(threshold float64, blockUnsafe bool, patterns map[string][]string, client judge.Client, prompts *judge.Prompts, logger *zerolog.Logger) *SafetyValidator {
	if len(patterns) == 0 {
		patterns = DefaultHarmfulPatterns
	}

	compiled := make(map[string]*regexp.Regexp, len(patterns))
	categories := make([]string, 0, len(patterns))
	for category, terms := range patterns {
		if len(terms) == 0 {
			continue
		}
		compiled[category] = phrasePattern(terms)
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &SafetyValidator{
		threshold:   threshold,
		blockUnsafe: blockUnsafe,
		patterns:    compiled,
		categories:  categories,
		judge:       client,
		prompts:     prompts,
		logger:      logger,
	}
}

func (v *SafetyValidator) Type() models.ValidationType {
	return models.ValidationSafety
}

func (v *SafetyValidator) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidatorVerdict, error) {
	details := map[string]any{"threshold": v.threshold}

	rule, matches := v.ruleScore(req.Response)
	details["rule_score"] = rule
	if len(matches) > 0 {
		details["matches"] = matches
	}

	confidence := rule
	if v.judge == nil {
		details["judge_unavailable"] = true
	} else {
		prompt, err := v.prompts.Render(judge.KindSafety, judge.PromptData{Query: req.Query, Response: req.Response})
		if err != nil {
			return models.ValidatorVerdict{}, fmt.Errorf("safety prompt: %w", err)
		}

		score := judge.Ask(ctx, v.judge, prompt)
		if score.Failed() {
			details["judge_error"] = score.Err
		} else {
			details["judge_score"] = score.Value
			details["parse_fallback"] = score.ParseFallback
			confidence = (rule + score.Value) / 2
		}
	}

	passed := confidence >= v.threshold
	if !v.blockUnsafe {
		details["blocking_disabled"] = true
		passed = true
	}

	if confidence < v.threshold {
		v.logger.Warn().
			Float64("confidence", confidence).
			Interface("matches", matches).
			Bool("blocking", v.blockUnsafe).
			Msg("unsafe content detected")
	}

	return models.ValidatorVerdict{
		ValidatorType: models.ValidationSafety,
		Passed:        passed,
		Confidence:    confidence,
		Details:       details,
	}, nil
}

// ruleScore is 1.0 minus a fixed penalty per harmful match, floored at 0.
func (v *SafetyValidator) ruleScore(text string) (float64, map[string]int) {
	matches := map[string]int{}
	total := 0
	for _, category := range v.categories {
		if n := len(v.patterns[category].FindAllStringIndex(text, -1)); n > 0 {
			matches[category] = n
			total += n
		}
	}

	score := 1.0 - harmfulMatchPenalty*float64(total)
	if score < 0 {
		score = 0
	}
	return score, matches
}
