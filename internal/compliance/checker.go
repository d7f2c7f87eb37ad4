package compliance

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	highWeight   = 3
	mediumWeight = 1

	recommendRedactPII = "Remove or redact PII before sharing"
	recommendHIPAA     = "Ensure HIPAA compliance for medical information"
)

type piiPattern struct {
	category string
	re       *regexp.Regexp
}

type rule struct {
	framework string
	config.ComplianceRule
}

// Options toggles the two scans independently.
type Options struct {
	EnablePII     bool
	EnableMedical bool
}

// Checker is a pure, rule-based PII and medical content scanner. Its output
// depends only on the text, the mode and the configured rules.
type Checker struct {
	patterns        []piiPattern
	medicalKeywords []string
	rules           []rule
	opts            Options
	logger          *zerolog.Logger
}

// NewChecker falls back to the default patterns, keywords and rules for any
// section left empty in cfg.
func NewChecker(cfg config.ComplianceConfig, opts Options, logger *zerolog.Logger) (*Checker, error) {
	rawPatterns := cfg.PIIPatterns
	if len(rawPatterns) == 0 {
		rawPatterns = DefaultPIIPatterns
	}
	patterns, err := compilePatterns(rawPatterns)
	if err != nil {
		return nil, err
	}

	keywords := cfg.MedicalKeywords
	if len(keywords) == 0 {
		keywords = DefaultMedicalKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	rawRules := cfg.ComplianceRules
	if len(rawRules) == 0 {
		rawRules = DefaultRules
	}
	rules := make([]rule, 0, len(rawRules))
	for name, r := range rawRules {
		rules = append(rules, rule{framework: name, ComplianceRule: r})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].framework < rules[j].framework })

	return &Checker{
		patterns:        patterns,
		medicalKeywords: lowered,
		rules:           rules,
		opts:            opts,
		logger:          logger,
	}, nil
}

func compilePatterns(raw map[string]string) ([]piiPattern, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		if !slices.Contains(redactionOrder, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var ordered []string
	for _, name := range redactionOrder {
		if _, ok := raw[name]; ok {
			ordered = append(ordered, name)
		}
	}
	ordered = append(ordered, names...)

	patterns := make([]piiPattern, 0, len(ordered))
	for _, name := range ordered {
		re, err := regexp.Compile(`(?i)` + raw[name])
		if err != nil {
			return nil, fmt.Errorf("%w: pii pattern %s: %v", config.ErrInvalidConfig, name, err)
		}
		patterns = append(patterns, piiPattern{category: name, re: re})
	}
	return patterns, nil
}

// CheckPII returns one HIGH finding per category with at least one match.
func (c *Checker) CheckPII(text string) []models.ComplianceFinding {
	if !c.opts.EnablePII {
		return nil
	}

	var findings []models.ComplianceFinding
	for _, p := range c.patterns {
		if n := len(p.re.FindAllStringIndex(text, -1)); n > 0 {
			findings = append(findings, models.ComplianceFinding{
				Type:       models.FindingPIIExposure,
				Category:   p.category,
				MatchCount: n,
				Severity:   models.SeverityHigh,
			})
		}
	}
	return findings
}

// CheckMedicalCompliance returns a single MEDIUM finding naming every matched keyword.
func (c *Checker) CheckMedicalCompliance(text string) []models.ComplianceFinding {
	if !c.opts.EnableMedical {
		return nil
	}

	lower := strings.ToLower(text)
	var matched []string
	for _, k := range c.medicalKeywords {
		if strings.Contains(lower, k) {
			matched = append(matched, k)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	return []models.ComplianceFinding{{
		Type:         models.FindingMedicalInformation,
		Category:     MedicalCategory,
		MatchCount:   len(matched),
		Severity:     models.SeverityMedium,
		MatchedTerms: matched,
	}}
}

// ApplyGuardrails scans text, redacts PII and picks an action for mode.
func (c *Checker) ApplyGuardrails(text string, mode models.ComplianceMode) models.ComplianceVerdict {
	findings := append(c.CheckPII(text), c.CheckMedicalCompliance(text)...)

	high, medium := 0, 0
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityHigh:
			high++
		case models.SeverityMedium:
			medium++
		}
	}

	verdict := models.ComplianceVerdict{
		Findings:        findings,
		RiskScore:       highWeight*high + mediumWeight*medium,
		Mode:            mode,
		Recommendations: c.recommendations(findings),
	}
	if verdict.Findings == nil {
		verdict.Findings = []models.ComplianceFinding{}
	}
	if high > 0 {
		verdict.SanitizedText = c.Redact(text)
	}

	switch mode {
	case models.ComplianceModerate:
		if high > 0 {
			verdict.Action = models.ActionSanitize
		} else {
			verdict.Action = models.ActionAllow
		}
	case models.CompliancePermissive:
		verdict.Action = models.ActionAllow
	default:
		if mode != models.ComplianceStrict {
			c.logger.Warn().Str("mode", string(mode)).Msg("unknown compliance mode, applying strict")
		}
		if len(findings) > 0 {
			verdict.Action = models.ActionBlock
		} else {
			verdict.Action = models.ActionAllow
		}
	}
	verdict.Message = message(verdict.Action, len(findings))

	c.logger.Debug().
		Str("mode", string(mode)).
		Str("action", string(verdict.Action)).
		Int("findings", len(findings)).
		Int("risk_score", verdict.RiskScore).
		Msg("compliance check complete")

	return verdict
}

// Redact replaces every PII match with [REDACTED_<CATEGORY>].
func (c *Checker) Redact(text string) string {
	for _, p := range c.patterns {
		text = p.re.ReplaceAllLiteralString(text, "[REDACTED_"+strings.ToUpper(p.category)+"]")
	}
	return text
}

func (c *Checker) recommendations(findings []models.ComplianceFinding) []string {
	recs := []string{}
	seen := map[string]bool{}
	add := func(r string) {
		if !seen[r] {
			seen[r] = true
			recs = append(recs, r)
		}
	}

	categories := map[string]bool{}
	for _, f := range findings {
		categories[f.Category] = true
		switch f.Type {
		case models.FindingPIIExposure:
			add(recommendRedactPII)
		case models.FindingMedicalInformation:
			add(recommendHIPAA)
		}
	}

	for _, r := range c.rules {
		for _, prohibited := range r.Prohibited {
			if !categories[prohibited] {
				continue
			}
			for _, action := range r.RequiredActions {
				add(fmt.Sprintf("%s: %s", r.framework, action))
			}
			break
		}
	}
	return recs
}

func message(action models.Action, findings int) string {
	switch action {
	case models.ActionBlock:
		return fmt.Sprintf("Content blocked: %d compliance violation(s) detected", findings)
	case models.ActionSanitize:
		return fmt.Sprintf("Content sanitized: %d compliance issue(s) redacted", findings)
	}
	if findings > 0 {
		return fmt.Sprintf("Content allowed with %d compliance note(s)", findings)
	}
	return "No compliance issues detected"
}
