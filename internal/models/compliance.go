package models

import (
	"fmt"
	"strings"
)

type ComplianceMode string

const (
	ComplianceStrict     ComplianceMode = "strict"
	ComplianceModerate   ComplianceMode = "moderate"
	CompliancePermissive ComplianceMode = "permissive"
)

func ParseComplianceMode(s string) (ComplianceMode, error) {
	m := ComplianceMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ComplianceStrict, ComplianceModerate, CompliancePermissive:
		return m, nil
	}
	return "", fmt.Errorf("unknown compliance mode %q", s)
}

type Action string

const (
	ActionBlock    Action = "BLOCK"
	ActionSanitize Action = "SANITIZE"
	ActionAllow    Action = "ALLOW"
)

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

type FindingType string

const (
	FindingPIIExposure        FindingType = "PII_EXPOSURE"
	FindingMedicalInformation FindingType = "MEDICAL_INFORMATION"
)

// ComplianceFinding is one detected category, not one match.
type ComplianceFinding struct {
	Type         FindingType `json:"type"`
	Category     string      `json:"category"`
	MatchCount   int         `json:"match_count"`
	Severity     Severity    `json:"severity"`
	MatchedTerms []string    `json:"matched_terms,omitempty"`
}

type ComplianceVerdict struct {
	Action          Action              `json:"action"`
	Message         string              `json:"message"`
	SanitizedText   string              `json:"sanitized_text"`
	Findings        []ComplianceFinding `json:"findings"`
	Recommendations []string            `json:"recommendations"`
	RiskScore       int                 `json:"risk_score"`
	Mode            ComplianceMode      `json:"mode"`
	Error           string              `json:"error,omitempty"`
}
