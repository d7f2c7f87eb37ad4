package models

import (
	"fmt"
	"strings"
	"time"
)

type ValidationType string

const (
	ValidationRelevance     ValidationType = "relevance"
	ValidationHallucination ValidationType = "hallucination"
	ValidationSafety        ValidationType = "safety"
	ValidationQuality       ValidationType = "quality"
)

// AllValidationTypes lists the validators in their sequential execution order.
// Critical validators come first so a strict sequential run fails fast.
var AllValidationTypes = []ValidationType{
	ValidationSafety,
	ValidationHallucination,
	ValidationRelevance,
	ValidationQuality,
}

// IsCritical reports whether a failure of this validator blocks content under MODERATE enforcement.
func (t ValidationType) IsCritical() bool {
	return t == ValidationSafety || t == ValidationHallucination
}

func ParseValidationType(s string) (ValidationType, error) {
	t := ValidationType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ValidationRelevance, ValidationHallucination, ValidationSafety, ValidationQuality:
		return t, nil
	// coherence and completeness are scored by the quality validator
	case "coherence", "completeness":
		return ValidationQuality, nil
	}
	return "", fmt.Errorf("unknown validation type %q", s)
}

type EnforcementLevel string

const (
	LevelStrict   EnforcementLevel = "strict"
	LevelModerate EnforcementLevel = "moderate"
	LevelLenient  EnforcementLevel = "lenient"
	LevelDisabled EnforcementLevel = "disabled"
)

func ParseEnforcementLevel(s string) (EnforcementLevel, error) {
	l := EnforcementLevel(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LevelStrict, LevelModerate, LevelLenient, LevelDisabled:
		return l, nil
	}
	return "", fmt.Errorf("unknown enforcement level %q", s)
}

type ConcurrencyStrategy string

const (
	StrategyParallel   ConcurrencyStrategy = "parallel"
	StrategySequential ConcurrencyStrategy = "sequential"
)

// ResultContext carries optional retrieval hints alongside a response.
type ResultContext struct {
	SemanticScore   *float64       `json:"semantic_score,omitempty" jsonschema:"pre-computed semantic similarity between query and response (0-1)"`
	Score           *float64       `json:"score,omitempty" jsonschema:"generic relevance score hint (0-1)"`
	SourceDocuments []string       `json:"source_documents,omitempty" jsonschema:"retrieved documents the response should be grounded in"`
	Metadata        map[string]any `json:"metadata,omitempty" jsonschema:"arbitrary caller metadata"`
}

// Normalized internal object
type ValidationRequest struct {
	Query    string        `json:"query"`
	Response string        `json:"response"`
	Context  ResultContext `json:"context"`
}

// One validator's output
type ValidatorVerdict struct {
	ValidatorType ValidationType `json:"validator_type"`
	Passed        bool           `json:"passed"`
	Confidence    float64        `json:"confidence"`
	Details       map[string]any `json:"details,omitempty"`
	Error         string         `json:"error,omitempty"`
	Duration      time.Duration  `json:"duration_ns"`
}

// QualityReport is the detailed outcome of one quality validation round.
type QualityReport struct {
	Passed     bool                                `json:"passed"`
	Level      EnforcementLevel                    `json:"level"`
	Confidence float64                             `json:"confidence"`
	Verdicts   map[ValidationType]ValidatorVerdict `json:"verdicts"`
	Failed     []ValidationType                    `json:"failed,omitempty"`
	Skipped    []ValidationType                    `json:"skipped,omitempty"`
	Cached     bool                                `json:"cached"`
	Error      string                              `json:"error,omitempty"`
}

// CriticalFailure reports whether any critical validator failed.
func (r QualityReport) CriticalFailure() bool {
	for _, t := range r.Failed {
		if t.IsCritical() {
			return true
		}
	}
	return false
}

// ContentReport is the content-only convenience view of a quality round.
type ContentReport struct {
	Passed          bool     `json:"passed"`
	Confidence      float64  `json:"confidence"`
	Warnings        []string `json:"warnings"`
	ComplianceScore float64  `json:"compliance_score"`
}

// GenerationReport extends a quality round with source attribution and factual consistency.
type GenerationReport struct {
	Passed             bool          `json:"passed"`
	Quality            QualityReport `json:"quality"`
	AttributionScore   float64       `json:"attribution_score"`
	ConsistencyScore   float64       `json:"consistency_score"`
	OverallScore       float64       `json:"overall_score"`
	SourcesConsidered  int           `json:"sources_considered"`
	JudgeUnavailable   bool          `json:"judge_unavailable,omitempty"`
	AttributionDetails JudgeDetail   `json:"attribution_details"`
	ConsistencyDetails JudgeDetail   `json:"consistency_details"`
}

// JudgeDetail records how a judge score was obtained.
type JudgeDetail struct {
	ParseFallback bool   `json:"parse_fallback"`
	Error         string `json:"error,omitempty"`
}

// ValidatorRun is the result of executing one named validator on demand.
type ValidatorRun struct {
	ID        string           `json:"id"`
	Validator ValidationType   `json:"validator"`
	Threshold *float64         `json:"threshold,omitempty"`
	Passed    bool             `json:"passed"`
	Verdict   ValidatorVerdict `json:"verdict"`
}
