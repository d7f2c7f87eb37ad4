package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"go.yaml.in/yaml/v3"
)

var ErrInvalidConfig = errors.New("invalid guardrail config")

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Default returns the policy used when no YAML file is present.
func Default() *Config {
	cfg := base()
	applyDefaults(cfg)
	return cfg
}

// base leaves the unified level and mode empty so they inherit from the
// quality and compliance sections.
func base() *Config {
	return &Config{
		Quality: QualityConfig{
			Level:               string(models.LevelModerate),
			ConfidenceThreshold: 0.7,
			EnabledValidators: []string{
				string(models.ValidationRelevance),
				string(models.ValidationHallucination),
				string(models.ValidationSafety),
				string(models.ValidationQuality),
			},
			RelevanceThreshold:     0.6,
			HallucinationThreshold: 0.8,
			EnableFactChecking:     true,
			SafetyThreshold:        0.9,
			BlockUnsafeContent:     true,
			QualityThreshold:       0.6,
			MinResponseLength:      10,
			MaxResponseLength:      5000,
			RequireCoherence:       true,
			EnableCaching:          true,
			CacheTTLMinutes:        60,
			CacheMaxEntries:        1000,
			ParallelValidation:     true,
			LenientFailureRatio:    0.6,
		},
		Compliance: ComplianceConfig{
			Mode: string(models.ComplianceModerate),
		},
		Unified: UnifiedConfig{
			EnableQualityChecks:     true,
			EnableComplianceChecks:  true,
			EnablePIIDetection:      true,
			EnableMedicalCompliance: true,
			PriorityMode:            string(models.PriorityComplianceFirst),
			EnableSanitization:      true,
		},
		Judge: JudgeConfig{
			Timeout:   10 * time.Second,
			MaxTokens: 16,
			Retry:     true,
		},
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			KeyPrefix: "guardrail:verdict:",
		},
	}
}

// LoadFromEnv reads the file named by GUARDRAILS_CONFIG_PATH, falling back to
// configs/guardrails.yaml. A missing file yields Default().
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("GUARDRAILS_CONFIG_PATH")
	if path == "" {
		path = "configs/guardrails.yaml"
	}

	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guardrail config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML on top of the defaults, so omitted keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := base()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := base()

	if cfg.Quality.Level == "" {
		cfg.Quality.Level = d.Quality.Level
	}
	if cfg.Quality.CacheTTLMinutes == 0 {
		cfg.Quality.CacheTTLMinutes = d.Quality.CacheTTLMinutes
	}
	if cfg.Quality.CacheMaxEntries == 0 {
		cfg.Quality.CacheMaxEntries = d.Quality.CacheMaxEntries
	}
	if cfg.Quality.LenientFailureRatio == 0 {
		cfg.Quality.LenientFailureRatio = d.Quality.LenientFailureRatio
	}
	if cfg.Quality.MaxResponseLength == 0 {
		cfg.Quality.MaxResponseLength = d.Quality.MaxResponseLength
	}
	if cfg.Compliance.Mode == "" {
		cfg.Compliance.Mode = d.Compliance.Mode
	}
	if len(cfg.Quality.EnabledValidators) == 0 {
		cfg.Quality.EnabledValidators = d.Quality.EnabledValidators
	}
	if cfg.Unified.QualityLevel == "" {
		cfg.Unified.QualityLevel = cfg.Quality.Level
	}
	if cfg.Unified.ComplianceMode == "" {
		cfg.Unified.ComplianceMode = cfg.Compliance.Mode
	}
	if cfg.Unified.PriorityMode == "" {
		cfg.Unified.PriorityMode = d.Unified.PriorityMode
	}
	if cfg.Judge.Timeout == 0 {
		cfg.Judge.Timeout = d.Judge.Timeout
	}
	if cfg.Judge.MaxTokens == 0 {
		cfg.Judge.MaxTokens = d.Judge.MaxTokens
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = d.Cache.Backend
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = d.Cache.KeyPrefix
	}
}

// Validate rejects unknown enum values and out-of-range thresholds.
func (c *Config) Validate() error {
	if _, err := models.ParseEnforcementLevel(c.Quality.Level); err != nil {
		return fmt.Errorf("%w: quality.level: %v", ErrInvalidConfig, err)
	}
	if _, err := models.ParseEnforcementLevel(c.Unified.QualityLevel); err != nil {
		return fmt.Errorf("%w: unified.quality_level: %v", ErrInvalidConfig, err)
	}
	if _, err := models.ParseComplianceMode(c.Compliance.Mode); err != nil {
		return fmt.Errorf("%w: compliance.mode: %v", ErrInvalidConfig, err)
	}
	if _, err := models.ParseComplianceMode(c.Unified.ComplianceMode); err != nil {
		return fmt.Errorf("%w: unified.compliance_mode: %v", ErrInvalidConfig, err)
	}
	if _, err := models.ParsePriorityMode(c.Unified.PriorityMode); err != nil {
		return fmt.Errorf("%w: unified.priority_mode: %v", ErrInvalidConfig, err)
	}

	if len(c.Quality.EnabledValidators) == 0 {
		return fmt.Errorf("%w: quality.enabled_validators is empty", ErrInvalidConfig)
	}
	for _, name := range c.Quality.EnabledValidators {
		if _, err := models.ParseValidationType(name); err != nil {
			return fmt.Errorf("%w: quality.enabled_validators: %v", ErrInvalidConfig, err)
		}
	}

	thresholds := map[string]float64{
		"confidence_threshold":    c.Quality.ConfidenceThreshold,
		"relevance_threshold":     c.Quality.RelevanceThreshold,
		"hallucination_threshold": c.Quality.HallucinationThreshold,
		"safety_threshold":        c.Quality.SafetyThreshold,
		"quality_threshold":       c.Quality.QualityThreshold,
	}
	for name, v := range thresholds {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: quality.%s %.2f out of range [0, 1]", ErrInvalidConfig, name, v)
		}
	}
	if c.Quality.LenientFailureRatio <= 0 || c.Quality.LenientFailureRatio > 1 {
		return fmt.Errorf("%w: quality.lenient_failure_ratio %.2f out of range (0, 1]", ErrInvalidConfig, c.Quality.LenientFailureRatio)
	}
	if c.Quality.MinResponseLength < 0 || c.Quality.MinResponseLength > c.Quality.MaxResponseLength {
		return fmt.Errorf("%w: min_response_length %d must be within [0, max_response_length %d]",
			ErrInvalidConfig, c.Quality.MinResponseLength, c.Quality.MaxResponseLength)
	}
	if c.Quality.CacheTTLMinutes < 0 || c.Quality.CacheMaxEntries < 0 {
		return fmt.Errorf("%w: cache ttl and max entries must not be negative", ErrInvalidConfig)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("%w: cache.backend %q", ErrInvalidConfig, c.Cache.Backend)
	}

	if c.Judge.Timeout < 0 {
		return fmt.Errorf("%w: judge.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
