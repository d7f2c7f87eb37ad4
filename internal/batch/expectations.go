package batch

import (
	"errors"
	"strings"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

var ErrNoExpectations = errors.New("no records with expected_status")

type ExpectationPair struct {
	ID       string               `json:"id"`
	Expected models.OverallStatus `json:"expected"`
	Actual   models.OverallStatus `json:"actual"`
}

type ExpectationResult struct {
	TotalRecords   int               `json:"total_records"`
	AgreementCount int               `json:"agreement_count"`
	AgreementRate  float64           `json:"agreement_rate"`
	Threshold      float64           `json:"threshold"`
	Passed         bool              `json:"passed"`
	Mismatches     []ExpectationPair `json:"mismatches,omitempty"`
}

// PairsFromResults keeps only results that carry both an expectation and an outcome.
func PairsFromResults(results []Result) []ExpectationPair {
	var pairs []ExpectationPair
	for _, r := range results {
		if r.ExpectedStatus == "" || r.Outcome == nil {
			continue
		}
		pairs = append(pairs, ExpectationPair{
			ID:       r.ID,
			Expected: models.OverallStatus(strings.ToUpper(r.ExpectedStatus)),
			Actual:   r.Outcome.OverallStatus,
		})
	}
	return pairs
}

// CheckExpectations compares labelled statuses with the pipeline's outcomes.
func CheckExpectations(pairs []ExpectationPair, threshold float64) (*ExpectationResult, error) {
	if len(pairs) == 0 {
		return nil, ErrNoExpectations
	}

	result := &ExpectationResult{
		TotalRecords: len(pairs),
		Threshold:    threshold,
	}
	for _, p := range pairs {
		if p.Expected == p.Actual {
			result.AgreementCount++
			continue
		}
		result.Mismatches = append(result.Mismatches, p)
	}

	result.AgreementRate = float64(result.AgreementCount) / float64(result.TotalRecords)
	result.Passed = result.AgreementRate >= threshold
	return result, nil
}
