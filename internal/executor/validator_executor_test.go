package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/executor/mocks"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func threshold(v float64) *float64 { return &v }

func TestValidatorExecutor_Execute(t *testing.T) {
	input := models.ValidationInput{
		ID:      "test-001",
		Content: "Go is a programming language.",
		Query:   "What is Go?",
	}
	req := models.ValidationRequest{Query: input.Query, Response: input.Content}

	tests := []struct {
		name          string
		validator     string
		threshold     *float64
		expectType    models.ValidationType
		verdict       models.ValidatorVerdict
		expectPassed  bool
		expectErr     error
		expectNoCalls bool
	}{
		{
			name:         "validator verdict passes",
			validator:    "relevance",
			expectType:   models.ValidationRelevance,
			verdict:      models.ValidatorVerdict{Passed: true, Confidence: 0.85},
			expectPassed: true,
		},
		{
			name:         "threshold override fails verdict",
			validator:    "relevance",
			threshold:    threshold(0.9),
			expectType:   models.ValidationRelevance,
			verdict:      models.ValidatorVerdict{Passed: true, Confidence: 0.85},
			expectPassed: false,
		},
		{
			name:         "threshold override passes verdict",
			validator:    "safety",
			threshold:    threshold(0.5),
			expectType:   models.ValidationSafety,
			verdict:      models.ValidatorVerdict{Passed: false, Confidence: 0.7},
			expectPassed: true,
		},
		{
			name:         "threshold equal to confidence passes",
			validator:    "hallucination",
			threshold:    threshold(0.75),
			expectType:   models.ValidationHallucination,
			verdict:      models.ValidatorVerdict{Passed: false, Confidence: 0.75},
			expectPassed: true,
		},
		{
			name:         "errored verdict never passes override",
			validator:    "quality",
			threshold:    threshold(0),
			expectType:   models.ValidationQuality,
			verdict:      models.ValidatorVerdict{Passed: false, Error: "boom"},
			expectPassed: false,
		},
		{
			name:         "coherence alias runs quality",
			validator:    "coherence",
			expectType:   models.ValidationQuality,
			verdict:      models.ValidatorVerdict{Passed: true, Confidence: 0.8},
			expectPassed: true,
		},
		{
			name:          "unknown validator",
			validator:     "toxicity",
			expectErr:     ErrValidatorNotFound,
			expectNoCalls: true,
		},
		{
			name:          "threshold out of range",
			validator:     "safety",
			threshold:     threshold(1.5),
			expectNoCalls: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			runner := mocks.NewMockValidatorRunner(ctrl)
			if tt.expectNoCalls {
				runner.EXPECT().RunValidator(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			} else {
				runner.EXPECT().RunValidator(gomock.Any(), tt.expectType, req).Return(tt.verdict, nil)
			}

			executor := NewValidatorExecutor(runner, testLogger())
			run, err := executor.Execute(context.Background(), tt.validator, tt.threshold, input)

			if tt.expectNoCalls {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.expectErr != nil && !errors.Is(err, tt.expectErr) {
					t.Errorf("expected error %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if run.ID != input.ID {
				t.Errorf("expected ID %s, got %s", input.ID, run.ID)
			}
			if run.Validator != tt.expectType {
				t.Errorf("expected validator %s, got %s", tt.expectType, run.Validator)
			}
			if run.Passed != tt.expectPassed {
				t.Errorf("expected passed=%v, got %v", tt.expectPassed, run.Passed)
			}
			if run.Verdict.Confidence != tt.verdict.Confidence {
				t.Errorf("expected confidence %.2f, got %.2f", tt.verdict.Confidence, run.Verdict.Confidence)
			}
		})
	}
}

func TestValidatorExecutor_NotRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockValidatorRunner(ctrl)
	runner.EXPECT().
		RunValidator(gomock.Any(), models.ValidationHallucination, gomock.Any()).
		Return(models.ValidatorVerdict{}, errors.New("validator not found: hallucination"))

	executor := NewValidatorExecutor(runner, testLogger())
	_, err := executor.Execute(context.Background(), "hallucination", nil, models.ValidationInput{Content: "text"})
	if !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("expected ErrValidatorNotFound, got %v", err)
	}
}

func TestValidatorExecutor_GeneratesID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockValidatorRunner(ctrl)
	runner.EXPECT().RunValidator(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.ValidatorVerdict{Passed: true, Confidence: 1}, nil)

	executor := NewValidatorExecutor(runner, testLogger())
	run, err := executor.Execute(context.Background(), "safety", nil, models.ValidationInput{Content: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID == "" {
		t.Error("expected generated ID")
	}
}
