package config

import "time"

// Config is the complete guardrail policy loaded from YAML.
type Config struct {
	Quality    QualityConfig    `yaml:"quality"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Unified    UnifiedConfig    `yaml:"unified"`
	Judge      JudgeConfig      `yaml:"judge"`
	Cache      CacheConfig      `yaml:"cache"`
}

type QualityConfig struct {
	Level                  string   `yaml:"level"`
	ConfidenceThreshold    float64  `yaml:"confidence_threshold"`
	EnabledValidators      []string `yaml:"enabled_validators"`
	RelevanceThreshold     float64  `yaml:"relevance_threshold"`
	HallucinationThreshold float64  `yaml:"hallucination_threshold"`
	EnableFactChecking     bool     `yaml:"enable_fact_checking"`
	SafetyThreshold        float64  `yaml:"safety_threshold"`
	BlockUnsafeContent     bool     `yaml:"block_unsafe_content"`
	QualityThreshold       float64  `yaml:"quality_threshold"`
	MinResponseLength      int      `yaml:"min_response_length"`
	MaxResponseLength      int      `yaml:"max_response_length"`
	RequireCoherence       bool     `yaml:"require_coherence"`
	EnableCaching          bool     `yaml:"enable_caching"`
	CacheTTLMinutes        int      `yaml:"cache_ttl_minutes"`
	CacheMaxEntries        int      `yaml:"cache_max_entries"`
	ParallelValidation     bool     `yaml:"parallel_validation"`
	LenientFailureRatio    float64  `yaml:"lenient_failure_ratio"`
}

// ComplianceRule describes one regulatory framework. Prohibited lists the
// finding categories the framework forbids releasing.
type ComplianceRule struct {
	Description     string   `yaml:"description"`
	Prohibited      []string `yaml:"prohibited"`
	RequiredActions []string `yaml:"required_actions"`
}

type ComplianceConfig struct {
	Mode            string                    `yaml:"mode"`
	PIIPatterns     map[string]string         `yaml:"pii_patterns"`
	MedicalKeywords []string                  `yaml:"medical_keywords"`
	ComplianceRules map[string]ComplianceRule `yaml:"compliance_rules"`
}

type UnifiedConfig struct {
	QualityLevel            string `yaml:"quality_level"`
	EnableQualityChecks     bool   `yaml:"enable_quality_checks"`
	ComplianceMode          string `yaml:"compliance_mode"`
	EnableComplianceChecks  bool   `yaml:"enable_compliance_checks"`
	EnablePIIDetection      bool   `yaml:"enable_pii_detection"`
	EnableMedicalCompliance bool   `yaml:"enable_medical_compliance"`
	FailOnAnyViolation      bool   `yaml:"fail_on_any_violation"`
	PriorityMode            string `yaml:"priority_mode"`
	EnableSanitization      bool   `yaml:"enable_sanitization"`
}

// JudgeConfig tunes the LLM-as-judge calls shared by every validator.
type JudgeConfig struct {
	Timeout     time.Duration     `yaml:"timeout"`
	MaxTokens   int               `yaml:"max_tokens"`
	Temperature float64           `yaml:"temperature"`
	Retry       bool              `yaml:"retry"`
	Prompts     map[string]string `yaml:"prompts"`
}

type CacheConfig struct {
	Backend   string `yaml:"backend"`
	KeyPrefix string `yaml:"key_prefix"`
}
