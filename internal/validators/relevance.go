package validators

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const DefaultRelevanceThreshold = 0.6

// RelevanceValidator prefers a caller supplied semantic score, then the judge,
// then keyword overlap between query and response.
type RelevanceValidator struct {
	threshold float64
	judge     judge.Client
	prompts   *judge.Prompts
	logger    *zerolog.Logger
}

// NewRelevanceValidator accepts a nil client; the validator then scores by keyword overlap.
func NewRelevanceValidator(threshold float64, client judge.Client, prompts *judge.Prompts, logger *zerolog.Logger) *RelevanceValidator {
	return &RelevanceValidator{
		threshold: threshold,
		judge:     client,
		prompts:   prompts,
		logger:    logger,
	}
}

func (v *RelevanceValidator) Type() models.ValidationType {
	return models.ValidationRelevance
}

func (v *RelevanceValidator) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidatorVerdict, error) {
	details := map[string]any{"threshold": v.threshold}

	confidence, source, err := v.score(ctx, req, details)
	if err != nil {
		return models.ValidatorVerdict{}, err
	}
	details["source"] = source

	v.logger.Debug().
		Str("validator", string(models.ValidationRelevance)).
		Str("source", source).
		Float64("confidence", confidence).
		Msg("relevance scored")

	return models.ValidatorVerdict{
		ValidatorType: models.ValidationRelevance,
		Passed:        confidence >= v.threshold,
		Confidence:    confidence,
		Details:       details,
	}, nil
}

func (v *RelevanceValidator) score(ctx context.Context, req models.ValidationRequest, details map[string]any) (float64, string, error) {
	if s := req.Context.SemanticScore; s != nil {
		return clamp01(*s), "semantic_score", nil
	}
	if s := req.Context.Score; s != nil {
		return clamp01(*s), "context_score", nil
	}

	if v.judge == nil {
		details["judge_unavailable"] = true
		return keywordOverlap(req.Query, req.Response), "keyword_overlap", nil
	}

	prompt, err := v.prompts.Render(judge.KindRelevance, judge.PromptData{Query: req.Query, Response: req.Response})
	if err != nil {
		return 0, "", fmt.Errorf("relevance prompt: %w", err)
	}

	score := judge.Ask(ctx, v.judge, prompt)
	if score.Failed() {
		details["judge_error"] = score.Err
		return keywordOverlap(req.Query, req.Response), "keyword_overlap", nil
	}

	details["parse_fallback"] = score.ParseFallback
	return score.Value, "judge", nil
}

// keywordOverlap is the fraction of unique query terms present in the response.
func keywordOverlap(query, response string) float64 {
	queryTokens := uniqueTokens(tokenize(query))
	if len(queryTokens) == 0 {
		return 0
	}
	responseTokens := uniqueTokens(tokenize(response))

	count := 0
	for token := range queryTokens {
		if responseTokens[token] {
			count++
		}
	}
	return float64(count) / float64(len(queryTokens))
}
