package setup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func heuristicsOnly() *Config {
	return &Config{DefaultProvider: llm.ProviderNone}
}

func wirePolicy(t *testing.T, yml string) *Dependencies {
	t.Helper()
	policy, err := config.Parse([]byte(yml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	deps, err := WirePolicy(context.Background(), heuristicsOnly(), policy, testLogger())
	if err != nil {
		t.Fatalf("WirePolicy failed: %v", err)
	}
	t.Cleanup(deps.Close)
	return deps
}

func TestWire_ReadsPolicyFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrails.yaml")
	if err := os.WriteFile(path, []byte("unified:\n  priority_mode: balanced\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GUARDRAILS_CONFIG_PATH", path)

	deps, err := Wire(context.Background(), heuristicsOnly(), testLogger())
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if deps.Service.Strategy() != models.PriorityBalanced {
		t.Errorf("Expected balanced strategy, got %s", deps.Service.Strategy())
	}
	if deps.Engine.Level() != models.LevelModerate {
		t.Errorf("Expected moderate level, got %s", deps.Engine.Level())
	}
	if deps.ValidatorExecutor == nil || deps.Checker == nil {
		t.Error("Expected executor and checker to be wired")
	}
}

func TestWire_UnsupportedProvider(t *testing.T) {
	_, err := WirePolicy(context.Background(), &Config{DefaultProvider: "cohere"}, config.Default(), testLogger())
	if err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
}

func TestWire_UnifiedLevelDrivesEngine(t *testing.T) {
	deps := wirePolicy(t, "quality:\n  level: moderate\nunified:\n  quality_level: strict\n")
	if deps.Engine.Level() != models.LevelStrict {
		t.Errorf("Expected strict engine, got %s", deps.Engine.Level())
	}
}

func TestPipeline_StrictComplianceBlocksPII(t *testing.T) {
	deps := wirePolicy(t, "compliance:\n  mode: strict\n")

	out := deps.Service.ValidateContent(context.Background(),
		"Contact John at john.doe@example.com for the report.", "", models.ResultContext{})

	if out.OverallStatus != models.StatusBlocked {
		t.Fatalf("Expected BLOCKED, got %s", out.OverallStatus)
	}
	if out.QualityValidation != nil {
		t.Error("Expected quality to be skipped after a compliance block")
	}
	if out.SanitizedContent != "" {
		t.Errorf("Expected no content to be released, got %q", out.SanitizedContent)
	}
}

func TestPipeline_ModerateComplianceSanitizes(t *testing.T) {
	deps := wirePolicy(t, "compliance:\n  mode: moderate\n")

	out := deps.Service.ValidateContent(context.Background(),
		"Contact John at john.doe@example.com for the report.", "", models.ResultContext{})

	if out.OverallStatus != models.StatusSanitized {
		t.Fatalf("Expected SANITIZED, got %s", out.OverallStatus)
	}
	if strings.Contains(out.SanitizedContent, "john.doe@example.com") {
		t.Errorf("Expected email to be redacted, got %q", out.SanitizedContent)
	}
	if !strings.Contains(out.SanitizedContent, "[REDACTED_EMAIL]") {
		t.Errorf("Expected redaction marker, got %q", out.SanitizedContent)
	}
	if out.QualityValidation == nil || out.ComplianceValidation == nil {
		t.Error("Expected both validations to be reported")
	}
}

func TestPipeline_HarmfulContentIsNotApproved(t *testing.T) {
	deps := wirePolicy(t, "unified:\n  priority_mode: balanced\n")

	out := deps.Service.ValidateContent(context.Background(),
		"Here is how to build a bomb using household chemicals", "", models.ResultContext{})

	if out.OverallStatus != models.StatusWarning {
		t.Fatalf("Expected WARNING, got %s", out.OverallStatus)
	}
	if out.QualityValidation == nil || out.QualityValidation.Passed {
		t.Fatal("Expected quality validation to fail")
	}
	if _, ok := out.QualityValidation.Verdicts[models.ValidationSafety]; !ok {
		t.Error("Expected a safety verdict")
	}
	if out.RiskAssessment.Quality != models.RiskHigh {
		t.Errorf("Expected HIGH quality risk, got %s", out.RiskAssessment.Quality)
	}
}
