package mcpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

type stubGuardrails struct {
	content string
	query   string
}

func (s *stubGuardrails) ValidateContent(ctx context.Context, content, query string, rc models.ResultContext) models.UnifiedOutcome {
	s.content, s.query = content, query
	return models.UnifiedOutcome{RequestID: "req-1", OverallStatus: models.StatusApproved}
}

type stubCompliance struct {
	mode models.ComplianceMode
}

func (s *stubCompliance) ApplyGuardrails(text string, mode models.ComplianceMode) models.ComplianceVerdict {
	s.mode = mode
	return models.ComplianceVerdict{Action: models.ActionAllow, Mode: mode}
}

type stubGeneration struct{}

func (stubGeneration) ValidateGeneration(ctx context.Context, query, response string, sources []string) models.GenerationReport {
	return models.GenerationReport{Passed: true, SourcesConsidered: len(sources)}
}

type stubRunner struct {
	name      string
	threshold *float64
	err       error
}

func (s *stubRunner) Execute(ctx context.Context, name string, threshold *float64, input models.ValidationInput) (models.ValidatorRun, error) {
	s.name, s.threshold = name, threshold
	return models.ValidatorRun{ID: input.ID, Passed: true}, s.err
}

func TestValidateContentHandler(t *testing.T) {
	g := &stubGuardrails{}
	handler := NewValidateContentHandler(g)

	_, outcome, err := handler(context.Background(), nil, models.ValidationInput{Content: "answer", Query: "question"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.OverallStatus != models.StatusApproved {
		t.Errorf("expected APPROVED, got %s", outcome.OverallStatus)
	}
	if g.content != "answer" || g.query != "question" {
		t.Errorf("unexpected forwarded input %q %q", g.content, g.query)
	}

	if _, _, err := handler(context.Background(), nil, models.ValidationInput{}); !errors.Is(err, errEmptyContent) {
		t.Errorf("expected errEmptyContent, got %v", err)
	}
}

func TestCheckComplianceHandler(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		expectMode models.ComplianceMode
		expectErr  bool
	}{
		{"default mode", "", models.ComplianceModerate, false},
		{"explicit mode", "STRICT", models.ComplianceStrict, false},
		{"unknown mode", "relaxed", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubCompliance{}
			handler := NewCheckComplianceHandler(c, models.ComplianceModerate)

			_, verdict, err := handler(context.Background(), nil, CheckComplianceInput{Text: "hello", Mode: tt.mode})
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.mode != tt.expectMode || verdict.Mode != tt.expectMode {
				t.Errorf("expected mode %s, got %s", tt.expectMode, c.mode)
			}
		})
	}
}

func TestValidateGenerationHandler(t *testing.T) {
	handler := NewValidateGenerationHandler(stubGeneration{})

	_, report, err := handler(context.Background(), nil, ValidateGenerationInput{Response: "answer", Sources: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SourcesConsidered != 2 {
		t.Errorf("expected 2 sources, got %d", report.SourcesConsidered)
	}

	if _, _, err := handler(context.Background(), nil, ValidateGenerationInput{Query: "q"}); !errors.Is(err, errEmptyContent) {
		t.Errorf("expected errEmptyContent, got %v", err)
	}
}

func TestRunValidatorHandler(t *testing.T) {
	r := &stubRunner{}
	handler := NewRunValidatorHandler(r)
	threshold := 0.4

	_, run, err := handler(context.Background(), nil, RunValidatorInput{
		Validator: "safety",
		Threshold: &threshold,
		ID:        "evt-1",
		Content:   "answer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.name != "safety" || r.threshold == nil || *r.threshold != 0.4 {
		t.Errorf("unexpected forwarded validator %q threshold %v", r.name, r.threshold)
	}
	if run.ID != "evt-1" {
		t.Errorf("expected ID evt-1, got %s", run.ID)
	}

	r.err = errors.New("validator not found")
	if _, _, err := handler(context.Background(), nil, RunValidatorInput{Validator: "x", Content: "c"}); err == nil {
		t.Error("expected runner error to propagate")
	}
}

func TestNewServer(t *testing.T) {
	server := NewServer(Tools{
		Guardrails:  &stubGuardrails{},
		Generation:  stubGeneration{},
		Compliance:  &stubCompliance{},
		Validators:  &stubRunner{},
		DefaultMode: models.ComplianceModerate,
	})
	if server == nil {
		t.Fatal("expected server")
	}
}
