package validators

import (
	"context"
	"strings"
	"unicode"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultQualityThreshold = 0.6

	lengthWeight       = 0.2
	coherenceWeight    = 0.3
	completenessWeight = 0.3
	languageWeight     = 0.2

	comfortableLength   = 1000
	minCoherence        = 0.5
	minExpectedLength   = 50
	verbosityMultiplier = 10
	verbosityScore      = 0.8
)

// QualityValidator scores length, coherence, completeness and language
// using heuristics only.
type QualityValidator struct {
	threshold        float64
	minLength        int
	maxLength        int
	requireCoherence bool
	logger           *zerolog.Logger
}

func NewQualityValidator(threshold float64, minLength, maxLength int, requireCoherence bool, logger *zerolog.Logger) *QualityValidator {
	return &QualityValidator{
		threshold:        threshold,
		minLength:        minLength,
		maxLength:        maxLength,
		requireCoherence: requireCoherence,
		logger:           logger,
	}
}

func (v *QualityValidator) Type() models.ValidationType {
	return models.ValidationQuality
}

func (v *QualityValidator) Validate(ctx context.Context, req models.ValidationRequest) (models.ValidatorVerdict, error) {
	sentences := splitSentences(req.Response)

	length := v.lengthScore(runeLen(req.Response))
	coherence := coherenceScore(sentences)
	completeness := completenessScore(runeLen(req.Query), runeLen(req.Response))
	language := languageScore(req.Response, sentences)

	confidence := clamp01(lengthWeight*length +
		coherenceWeight*coherence +
		completenessWeight*completeness +
		languageWeight*language)

	passed := confidence >= v.threshold
	if v.requireCoherence && coherence < minCoherence {
		passed = false
	}

	v.logger.Debug().
		Float64("length", length).
		Float64("coherence", coherence).
		Float64("completeness", completeness).
		Float64("language", language).
		Float64("confidence", confidence).
		Msg("quality scored")

	return models.ValidatorVerdict{
		ValidatorType: models.ValidationQuality,
		Passed:        passed,
		Confidence:    confidence,
		Details: map[string]any{
			"threshold":          v.threshold,
			"length_score":       length,
			"coherence_score":    coherence,
			"completeness_score": completeness,
			"language_score":     language,
		},
	}, nil
}

func (v *QualityValidator) lengthScore(n int) float64 {
	switch {
	case n < v.minLength:
		return 0
	case n > v.maxLength:
		return 0.3
	case n <= comfortableLength:
		return 1.0
	}
	// linear decay from 1.0 at comfortableLength to 0.5 at maxLength
	span := float64(v.maxLength - comfortableLength)
	return 1.0 - 0.5*float64(n-comfortableLength)/span
}

// coherenceScore averages the well-formed sentence ratio and the unique sentence ratio.
func coherenceScore(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}

	wellFormed := 0
	seen := make(map[string]bool, len(sentences))
	for _, s := range sentences {
		if runeLen(s) > 10 && strings.Contains(s, " ") {
			wellFormed++
		}
		seen[strings.ToLower(s)] = true
	}

	total := float64(len(sentences))
	return (float64(wellFormed)/total + float64(len(seen))/total) / 2
}

func completenessScore(queryLen, responseLen int) float64 {
	if queryLen > 0 && responseLen > verbosityMultiplier*queryLen {
		return verbosityScore
	}

	expected := max(minExpectedLength, 2*queryLen)
	ratio := float64(responseLen) / float64(expected)
	if ratio >= 1 {
		return 1.0
	}
	return ratio
}

func languageScore(text string, sentences []string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 1.0

	if len(sentences) > 0 {
		capitalized := 0
		for _, s := range sentences {
			if startsUpper(s) {
				capitalized++
			}
		}
		if float64(capitalized)/float64(len(sentences)) < 0.7 {
			score -= 0.2
		}
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) > 0 {
		unique := make(map[string]bool, len(words))
		for _, w := range words {
			unique[strings.Trim(w, punctuation)] = true
		}
		if float64(len(unique))/float64(len(words)) < 0.5 {
			score -= 0.3
		}
	}

	punct, chars := 0, 0
	for _, r := range text {
		chars++
		if unicode.IsPunct(r) {
			punct++
		}
	}
	if float64(punct)/float64(chars) > 0.2 {
		score -= 0.2
	}

	if score < 0 {
		return 0
	}
	return score
}
