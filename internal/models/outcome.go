package models

import (
	"fmt"
	"strings"
)

type OverallStatus string

const (
	StatusApproved  OverallStatus = "APPROVED"
	StatusSanitized OverallStatus = "SANITIZED"
	StatusWarning   OverallStatus = "WARNING"
	StatusBlocked   OverallStatus = "BLOCKED"
	StatusError     OverallStatus = "ERROR"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type PriorityMode string

const (
	PriorityComplianceFirst PriorityMode = "compliance_first"
	PriorityQualityFirst    PriorityMode = "quality_first"
	PriorityBalanced        PriorityMode = "balanced"
)

func ParsePriorityMode(s string) (PriorityMode, error) {
	m := PriorityMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PriorityComplianceFirst, PriorityQualityFirst, PriorityBalanced:
		return m, nil
	}
	return "", fmt.Errorf("unknown priority mode %q", s)
}

type RiskAssessment struct {
	Overall    RiskLevel `json:"overall"`
	Quality    RiskLevel `json:"quality"`
	Compliance RiskLevel `json:"compliance"`
}

// UnifiedOutcome is the single externally visible result of a guardrail round.
type UnifiedOutcome struct {
	RequestID            string             `json:"request_id"`
	OverallStatus        OverallStatus      `json:"overall_status"`
	OverallMessage       string             `json:"overall_message"`
	SanitizedContent     string             `json:"sanitized_content"`
	QualityValidation    *QualityReport     `json:"quality_validation,omitempty"`
	ComplianceValidation *ComplianceVerdict `json:"compliance_validation,omitempty"`
	RiskAssessment       RiskAssessment     `json:"risk_assessment"`
	Recommendations      []string           `json:"recommendations"`
	DurationMs           int64              `json:"duration_ms"`
	Timestamp            string             `json:"timestamp"`
	Strategy             PriorityMode       `json:"strategy"`
}

// ValidationInput is the wire form accepted by every transport.
type ValidationInput struct {
	ID      string        `json:"id,omitempty" jsonschema:"optional caller supplied identifier"`
	Content string        `json:"content" jsonschema:"the AI generated text to validate"`
	Query   string        `json:"query,omitempty" jsonschema:"the user query the content answers"`
	Context ResultContext `json:"context,omitempty" jsonschema:"retrieval context and hints"`
}
