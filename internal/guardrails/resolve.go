package guardrails

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

const (
	recQualityReview = "Review and improve response quality before release"
	recHighRisk      = "High risk content: escalate for compliance review"
	recMediumRisk    = "Medium risk content: monitor usage"
)

var statusNotes = map[models.OverallStatus]string{
	models.StatusBlocked:   "Content must be revised before it can be released",
	models.StatusSanitized: "Review sanitized content before sharing",
	models.StatusWarning:   "Consider manual review before release",
}

// resolve folds the subsystem verdicts into the final status. Order matters:
// a compliance block outranks everything else.
func (s *Service) resolve(content string, r round) models.UnifiedOutcome {
	qualityFailed := r.quality != nil && !r.quality.Passed
	action := models.ActionAllow
	if r.compliance != nil {
		action = r.compliance.Action
	}

	out := models.UnifiedOutcome{
		QualityValidation:    r.quality,
		ComplianceValidation: r.compliance,
		RiskAssessment: models.RiskAssessment{
			Quality:    qualityRisk(r.quality),
			Compliance: complianceRisk(r.compliance),
		},
	}

	switch {
	case action == models.ActionBlock:
		out.OverallStatus = models.StatusBlocked
		out.OverallMessage = "Content blocked by compliance checks: " + r.compliance.Message
		out.RiskAssessment.Overall = models.RiskHigh

	case qualityFailed && s.failOnAnyViolation:
		out.OverallStatus = models.StatusBlocked
		out.OverallMessage = fmt.Sprintf("Content blocked by quality checks: failed %s", joinTypes(r.quality.Failed))
		out.RiskAssessment.Overall = models.RiskHigh

	case action == models.ActionSanitize && s.enableSanitization:
		out.OverallStatus = models.StatusSanitized
		out.OverallMessage = "Content approved after sanitization"
		out.SanitizedContent = r.compliance.SanitizedText
		if out.SanitizedContent == "" {
			out.SanitizedContent = content
		}
		out.RiskAssessment.Overall = models.RiskLow
		if qualityFailed {
			out.OverallMessage = "Content sanitized with quality concerns"
			out.RiskAssessment.Overall = models.RiskMedium
		}

	case action == models.ActionSanitize:
		out.OverallStatus = models.StatusWarning
		out.OverallMessage = "Content requires sanitization but sanitization is disabled"
		out.SanitizedContent = content
		out.RiskAssessment.Overall = models.RiskMedium

	case qualityFailed:
		out.OverallStatus = models.StatusWarning
		out.OverallMessage = fmt.Sprintf("Content approved with quality warnings: failed %s", joinTypes(r.quality.Failed))
		out.SanitizedContent = content
		out.RiskAssessment.Overall = models.RiskMedium

	default:
		out.OverallStatus = models.StatusApproved
		out.OverallMessage = "Content approved"
		out.SanitizedContent = content
		out.RiskAssessment.Overall = models.RiskLow
	}

	out.Recommendations = recommendations(r, qualityFailed, out.OverallStatus, out.RiskAssessment.Overall)
	return out
}

func errorOutcome(msg string) models.UnifiedOutcome {
	return models.UnifiedOutcome{
		OverallStatus:  models.StatusError,
		OverallMessage: "Guardrail validation failed: " + msg,
		RiskAssessment: models.RiskAssessment{
			Overall:    models.RiskHigh,
			Quality:    models.RiskHigh,
			Compliance: models.RiskHigh,
		},
		Recommendations: []string{"Retry validation or review content manually"},
	}
}

func qualityRisk(q *models.QualityReport) models.RiskLevel {
	switch {
	case q == nil || q.Passed:
		return models.RiskLow
	case q.Error != "" || q.CriticalFailure():
		return models.RiskHigh
	default:
		return models.RiskMedium
	}
}

func complianceRisk(c *models.ComplianceVerdict) models.RiskLevel {
	switch {
	case c == nil:
		return models.RiskLow
	case c.Error != "" || c.RiskScore >= 3:
		return models.RiskHigh
	case c.RiskScore > 0:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func recommendations(r round, qualityFailed bool, status models.OverallStatus, risk models.RiskLevel) []string {
	var recs []string
	if r.compliance != nil {
		recs = append(recs, r.compliance.Recommendations...)
	}
	if qualityFailed {
		recs = append(recs, recQualityReview)
	}
	if note, ok := statusNotes[status]; ok {
		recs = append(recs, note)
	}
	switch risk {
	case models.RiskHigh:
		recs = append(recs, recHighRisk)
	case models.RiskMedium:
		recs = append(recs, recMediumRisk)
	}
	return dedupe(recs)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func joinTypes(types []models.ValidationType) string {
	if len(types) == 0 {
		return "none"
	}
	s := string(types[0])
	for _, t := range types[1:] {
		s += ", " + string(t)
	}
	return s
}
