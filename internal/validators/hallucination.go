package validators

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const DefaultHallucinationThreshold = 0.8

const (
	patternWeight   = 0.3
	groundingWeight = 0.4
	judgeWeight     = 0.3

	hedgingPenalty       = 0.1
	numberPenalty        = 0.05
	overconfidentPenalty = 0.1

	maxClaims          = 5
	minClaimLength     = 20
	claimSupportRatio  = 0.3
	noClaimsGrounding  = 0.8
	noSourcesGrounding = 0.5
)

var (
	hedgingPattern = phrasePattern([]string{
		"i think", "i believe", "probably", "possibly", "maybe", "perhaps",
		"as far as i know", "i'm not sure", "i am not sure", "it seems", "might be",
	})
	overconfidentPattern = phrasePattern([]string{
		"definitely", "guaranteed", "absolutely", "certainly", "undoubtedly",
		"without a doubt", "always", "never",
	})
	longNumberPattern = regexp.MustCompile(`\b\d{4,}\b`)

	imperativeStarts = map[string]bool{
		"please": true, "consider": true, "try": true, "make": true, "ensure": true,
		"check": true, "note": true, "remember": true, "let": true, "do": true,
		"don't": true, "use": true, "see": true, "click": true, "go": true,
		"avoid": true, "contact": true, "call": true,
	}
)

// HallucinationValidator blends phrase heuristics, grounding against source
// documents and a judge rating.
type HallucinationValidator struct {
	threshold          float64
	enableFactChecking bool
	judge              judge.Client
	prompts            *judge.Prompts
	logger             *zerolog.Logger
}

func NewHallucinationValidator(threshold float64, enableFactChecking bool, client judge.Client, prompts *judge.Prompts, logger *zerolog.Logger) *HallucinationValidator {
	return &HallucinationValidator{
		threshold:          threshold,
		enableFactChecking: enableFactChecking,
		judge:              client,
		prompts:            prompts,
		logger:             logger,
	}
}

func (v *HallucinationValidator) Type() models.ValidationType {
	return models.ValidationHallucination
}

func (v *HallucinationValidator) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidatorVerdict, error) {
	details := map[string]any{"threshold": v.threshold}

	pattern := patternScore(req.Response)
	details["pattern_score"] = pattern
	components := []weighted{{score: pattern, weight: patternWeight}}

	if v.enableFactChecking {
		grounding, claims := groundingScore(req.Response, req.Context.SourceDocuments)
		details["grounding_score"] = grounding
		details["claims_checked"] = claims
		components = append(components, weighted{score: grounding, weight: groundingWeight})
	}

	if v.judge == nil {
		details["judge_unavailable"] = true
	} else {
		prompt, err := v.prompts.Render(judge.KindHallucination, judge.PromptData{
			Query:    req.Query,
			Response: req.Response,
			Sources:  strings.Join(req.Context.SourceDocuments, "\n\n"),
		})
		if err != nil {
			return models.ValidatorVerdict{}, fmt.Errorf("hallucination prompt: %w", err)
		}

		score := judge.Ask(ctx, v.judge, prompt)
		if score.Failed() {
			details["judge_error"] = score.Err
		} else {
			details["judge_score"] = score.Value
			details["parse_fallback"] = score.ParseFallback
			components = append(components, weighted{score: score.Value, weight: judgeWeight})
		}
	}

	confidence := blend(components)

	v.logger.Debug().
		Str("validator", string(models.ValidationHallucination)).
		Float64("pattern", pattern).
		Float64("confidence", confidence).
		Msg("hallucination scored")

	return models.ValidatorVerdict{
		ValidatorType: models.ValidationHallucination,
		Passed:        confidence >= v.threshold,
		Confidence:    confidence,
		Details:       details,
	}, nil
}

// patternScore starts at 1.0 and subtracts a penalty per hedging phrase,
// per overconfident absolute and per long number once more than two appear.
func patternScore(response string) float64 {
	score := 1.0
	score -= hedgingPenalty * float64(len(hedgingPattern.FindAllStringIndex(response, -1)))
	score -= overconfidentPenalty * float64(len(overconfidentPattern.FindAllStringIndex(response, -1)))

	if numbers := len(longNumberPattern.FindAllStringIndex(response, -1)); numbers > 2 {
		score -= numberPenalty * float64(numbers)
	}

	if score < 0 {
		return 0
	}
	return score
}

// groundingScore returns the fraction of extracted claims supported by the
// sources and the number of claims checked.
func groundingScore(response string, sources []string) (float64, int) {
	if len(sources) == 0 {
		return noSourcesGrounding, 0
	}

	claims := extractClaims(response)
	if len(claims) == 0 {
		return noClaimsGrounding, 0
	}

	sourceTokens := uniqueTokens(tokenize(strings.Join(sources, " ")))

	supported := 0
	for _, claim := range claims {
		tokens := tokenize(claim)
		if len(tokens) == 0 {
			continue
		}
		found := 0
		for _, t := range tokens {
			if sourceTokens[t] {
				found++
			}
		}
		if float64(found)/float64(len(tokens)) >= claimSupportRatio {
			supported++
		}
	}

	return float64(supported) / float64(len(claims)), len(claims)
}

func extractClaims(response string) []string {
	var claims []string
	for _, sentence := range splitSentences(response) {
		if len(claims) == maxClaims {
			break
		}
		if runeLen(sentence) <= minClaimLength || strings.HasSuffix(sentence, "?") {
			continue
		}
		fields := strings.Fields(strings.ToLower(sentence))
		if len(fields) > 0 && imperativeStarts[strings.Trim(fields[0], punctuation)] {
			continue
		}
		claims = append(claims, sentence)
	}
	return claims
}
