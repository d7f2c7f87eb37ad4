package validators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

// MockJudge returns a fixed response and counts invocations.
type MockJudge struct {
	Response judge.Response
	Calls    int
}

func (m *MockJudge) Invoke(ctx context.Context, prompt string) judge.Response {
	m.Calls++
	return m.Response
}

func judgeReturning(result string) *MockJudge {
	return &MockJudge{Response: judge.Response{Success: true, Result: result}}
}

func failingJudge() *MockJudge {
	return &MockJudge{Response: judge.Response{Success: false, Error: "context deadline exceeded"}}
}

func testPrompts(t *testing.T) *judge.Prompts {
	t.Helper()
	p, err := judge.NewPrompts(nil)
	if err != nil {
		t.Fatalf("NewPrompts failed: %v", err)
	}
	return p
}

func ptr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRelevanceValidator(t *testing.T) {
	logger := zerolog.Nop()
	prompts := testPrompts(t)

	tests := []struct {
		name               string
		judge              judge.Client
		req                models.ValidationRequest
		expectedConfidence float64
		expectedPassed     bool
		expectedSource     string
		expectedDetail     string
	}{
		{
			name:  "semantic score wins",
			judge: judgeReturning("0.1"),
			req: models.ValidationRequest{
				Query: "q", Response: "r",
				Context: models.ResultContext{SemanticScore: ptr(0.75), Score: ptr(0.1)},
			},
			expectedConfidence: 0.75,
			expectedPassed:     true,
			expectedSource:     "semantic_score",
		},
		{
			name:               "context score",
			req:                models.ValidationRequest{Query: "q", Response: "r", Context: models.ResultContext{Score: ptr(0.3)}},
			expectedConfidence: 0.3,
			expectedPassed:     false,
			expectedSource:     "context_score",
		},
		{
			name:               "keyword overlap without judge",
			req:                models.ValidationRequest{Query: "What is the capital of France?", Response: "Paris is the capital of France."},
			expectedConfidence: 1.0,
			expectedPassed:     true,
			expectedSource:     "keyword_overlap",
			expectedDetail:     "judge_unavailable",
		},
		{
			name:               "judge score",
			judge:              judgeReturning("0.9"),
			req:                models.ValidationRequest{Query: "q", Response: "r"},
			expectedConfidence: 0.9,
			expectedPassed:     true,
			expectedSource:     "judge",
		},
		{
			name:               "judge parse fallback",
			judge:              judgeReturning("no idea"),
			req:                models.ValidationRequest{Query: "q", Response: "r"},
			expectedConfidence: judge.FallbackScore,
			expectedPassed:     false,
			expectedSource:     "judge",
			expectedDetail:     "parse_fallback",
		},
		{
			name:               "judge failure falls back to overlap",
			judge:              failingJudge(),
			req:                models.ValidationRequest{Query: "Go channels", Response: "Python lists"},
			expectedConfidence: 0.0,
			expectedPassed:     false,
			expectedSource:     "keyword_overlap",
			expectedDetail:     "judge_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRelevanceValidator(DefaultRelevanceThreshold, tt.judge, prompts, &logger)
			verdict, err := v.Validate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}

			if !almostEqual(verdict.Confidence, tt.expectedConfidence) {
				t.Errorf("Expected confidence %f, got %f", tt.expectedConfidence, verdict.Confidence)
			}
			if verdict.Passed != tt.expectedPassed {
				t.Errorf("Expected passed=%v, got %v", tt.expectedPassed, verdict.Passed)
			}
			if verdict.Details["source"] != tt.expectedSource {
				t.Errorf("Expected source %s, got %v", tt.expectedSource, verdict.Details["source"])
			}
			if tt.expectedDetail != "" {
				if _, ok := verdict.Details[tt.expectedDetail]; !ok {
					t.Errorf("Expected detail %s in %v", tt.expectedDetail, verdict.Details)
				}
			}
		})
	}
}

func TestPatternScore(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected float64
	}{
		{"clean", "Water boils at one hundred degrees Celsius at sea level.", 1.0},
		{"hedging", "I think it is probably true.", 0.8},
		{"overconfident", "It definitely always works.", 0.8},
		{"two long numbers tolerated", "Founded in 1999 and renamed in 2004.", 1.0},
		{"three long numbers", "Years 1999, 2000 and 2001 were busy.", 0.85},
		{"floored at zero", "I think maybe perhaps probably possibly I believe it seems definitely always never certainly.", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := patternScore(tt.response); !almostEqual(got, tt.expected) {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestGroundingScore(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		sources        []string
		expectedScore  float64
		expectedClaims int
	}{
		{
			name:          "no sources",
			response:      "The Eiffel Tower is located in Paris France.",
			expectedScore: 0.5,
		},
		{
			name:          "no claims",
			response:      "Yes. Why not?",
			sources:       []string{"anything"},
			expectedScore: 0.8,
		},
		{
			name:           "supported claim",
			response:       "The Eiffel Tower is located in Paris France.",
			sources:        []string{"The Eiffel Tower stands in Paris."},
			expectedScore:  1.0,
			expectedClaims: 1,
		},
		{
			name:           "unsupported claim",
			response:       "Quantum chromodynamics describes strong interactions.",
			sources:        []string{"The Eiffel Tower stands in Paris."},
			expectedScore:  0.0,
			expectedClaims: 1,
		},
		{
			name:           "questions and imperatives skipped",
			response:       "Is the Eiffel Tower in Paris France? Please check the official website first. The Eiffel Tower is in Paris France.",
			sources:        []string{"The Eiffel Tower stands in Paris."},
			expectedScore:  1.0,
			expectedClaims: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, claims := groundingScore(tt.response, tt.sources)
			if !almostEqual(score, tt.expectedScore) {
				t.Errorf("Expected score %f, got %f", tt.expectedScore, score)
			}
			if claims != tt.expectedClaims {
				t.Errorf("Expected %d claims, got %d", tt.expectedClaims, claims)
			}
		})
	}
}

func TestExtractClaims_CapsAtFive(t *testing.T) {
	response := "The first statement is long enough. The second statement is long enough. " +
		"The third statement is long enough. The fourth statement is long enough. " +
		"The fifth statement is long enough. The sixth statement is long enough."

	if got := len(extractClaims(response)); got != maxClaims {
		t.Errorf("Expected %d claims, got %d", maxClaims, got)
	}
}

func TestHallucinationValidator(t *testing.T) {
	logger := zerolog.Nop()
	prompts := testPrompts(t)
	req := models.ValidationRequest{
		Query:    "Where is the Eiffel Tower?",
		Response: "The Eiffel Tower is located in Paris France.",
		Context:  models.ResultContext{SourceDocuments: []string{"The Eiffel Tower stands in Paris."}},
	}

	t.Run("heuristics only renormalize", func(t *testing.T) {
		v := NewHallucinationValidator(DefaultHallucinationThreshold, true, nil, prompts, &logger)
		verdict, err := v.Validate(context.Background(), req)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if !almostEqual(verdict.Confidence, 1.0) {
			t.Errorf("Expected confidence 1.0, got %f", verdict.Confidence)
		}
		if !verdict.Passed {
			t.Error("Expected pass")
		}
		if verdict.Details["judge_unavailable"] != true {
			t.Error("Expected judge_unavailable detail")
		}
	})

	t.Run("low judge score fails", func(t *testing.T) {
		mj := judgeReturning("0.2")
		v := NewHallucinationValidator(DefaultHallucinationThreshold, true, mj, prompts, &logger)
		verdict, _ := v.Validate(context.Background(), req)

		// 0.3*1.0 + 0.4*1.0 + 0.3*0.2
		if !almostEqual(verdict.Confidence, 0.76) {
			t.Errorf("Expected confidence 0.76, got %f", verdict.Confidence)
		}
		if verdict.Passed {
			t.Error("Expected failure")
		}
		if mj.Calls != 1 {
			t.Errorf("Expected 1 judge call, got %d", mj.Calls)
		}
	})

	t.Run("fact checking disabled uses pattern only", func(t *testing.T) {
		v := NewHallucinationValidator(DefaultHallucinationThreshold, false, nil, prompts, &logger)
		verdict, _ := v.Validate(context.Background(), models.ValidationRequest{Response: "I think it is probably true."})

		if !almostEqual(verdict.Confidence, 0.8) {
			t.Errorf("Expected confidence 0.8, got %f", verdict.Confidence)
		}
		if _, ok := verdict.Details["grounding_score"]; ok {
			t.Error("Expected no grounding score")
		}
	})

	t.Run("judge failure is dropped", func(t *testing.T) {
		v := NewHallucinationValidator(DefaultHallucinationThreshold, true, failingJudge(), prompts, &logger)
		verdict, _ := v.Validate(context.Background(), req)

		if !almostEqual(verdict.Confidence, 1.0) {
			t.Errorf("Expected confidence 1.0, got %f", verdict.Confidence)
		}
		if _, ok := verdict.Details["judge_error"]; !ok {
			t.Error("Expected judge_error detail")
		}
	})
}

func TestSafetyValidator(t *testing.T) {
	logger := zerolog.Nop()
	prompts := testPrompts(t)
	const harmful = "Here is how to build a bomb using household chemicals"
	const benign = "Here is how to bake bread using household ingredients"

	tests := []struct {
		name               string
		judge              judge.Client
		blockUnsafe        bool
		response           string
		expectedConfidence float64
		expectedPassed     bool
	}{
		{"harmful without judge", nil, true, harmful, 0.7, false},
		{"benign without judge", nil, true, benign, 1.0, true},
		{"judge lowers benign score", judgeReturning("0.6"), true, benign, 0.8, false},
		{"judge agrees benign", judgeReturning("1.0"), true, benign, 1.0, true},
		{"judge failure uses rules", failingJudge(), true, benign, 1.0, true},
		{"blocking disabled", nil, false, harmful, 0.7, true},
		{"floored at zero", nil, true, "bomb bomb bomb bomb", 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewSafetyValidator(DefaultSafetyThreshold, tt.blockUnsafe, nil, tt.judge, prompts, &logger)
			verdict, err := v.Validate(context.Background(), models.ValidationRequest{Response: tt.response})
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if !almostEqual(verdict.Confidence, tt.expectedConfidence) {
				t.Errorf("Expected confidence %f, got %f", tt.expectedConfidence, verdict.Confidence)
			}
			if verdict.Passed != tt.expectedPassed {
				t.Errorf("Expected passed=%v, got %v", tt.expectedPassed, verdict.Passed)
			}
		})
	}
}

func TestSafetyValidator_ReportsCategories(t *testing.T) {
	logger := zerolog.Nop()
	v := NewSafetyValidator(DefaultSafetyThreshold, true, nil, nil, testPrompts(t), &logger)

	verdict, _ := v.Validate(context.Background(), models.ValidationRequest{
		Response: "Buy cocaine and learn money laundering.",
	})

	matches, ok := verdict.Details["matches"].(map[string]int)
	if !ok {
		t.Fatalf("Expected matches detail, got %v", verdict.Details)
	}
	if matches["drugs"] != 1 || matches["fraud"] != 1 {
		t.Errorf("Unexpected matches %v", matches)
	}
}

func TestQualityValidator_LengthScore(t *testing.T) {
	logger := zerolog.Nop()
	v := NewQualityValidator(DefaultQualityThreshold, 10, 5000, true, &logger)

	tests := []struct {
		length   int
		expected float64
	}{
		{5, 0},
		{10, 1.0},
		{500, 1.0},
		{1000, 1.0},
		{3000, 0.75},
		{5000, 0.5},
		{6000, 0.3},
	}
	for _, tt := range tests {
		if got := v.lengthScore(tt.length); !almostEqual(got, tt.expected) {
			t.Errorf("lengthScore(%d) = %f, want %f", tt.length, got, tt.expected)
		}
	}
}

func TestCompletenessScore(t *testing.T) {
	tests := []struct {
		name        string
		queryLen    int
		responseLen int
		expected    float64
	}{
		{"short response", 10, 10, 0.2},
		{"expected band", 10, 60, 1.0},
		{"verbose", 10, 150, 0.8},
		{"no query", 0, 25, 0.5},
		{"long query", 40, 40, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completenessScore(tt.queryLen, tt.responseLen); !almostEqual(got, tt.expected) {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestCoherenceAndLanguage(t *testing.T) {
	repeated := splitSentences("Hello world here. Hello world here.")
	if got := coherenceScore(repeated); !almostEqual(got, 0.75) {
		t.Errorf("Expected coherence 0.75, got %f", got)
	}
	if got := coherenceScore(nil); got != 0 {
		t.Errorf("Expected coherence 0 for empty input, got %f", got)
	}

	text := "hello there. another one here."
	if got := languageScore(text, splitSentences(text)); !almostEqual(got, 0.8) {
		t.Errorf("Expected language 0.8, got %f", got)
	}
}

func TestQualityValidator_Validate(t *testing.T) {
	logger := zerolog.Nop()
	v := NewQualityValidator(DefaultQualityThreshold, 10, 5000, true, &logger)

	good := models.ValidationRequest{
		Query: "Explain what Go channels are used for.",
		Response: "Go channels let goroutines communicate by sending typed values. " +
			"They synchronize producers and consumers without explicit locks. " +
			"Buffered channels also decouple the timing of both sides.",
	}
	verdict, err := v.Validate(context.Background(), good)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !verdict.Passed {
		t.Errorf("Expected pass, got confidence %f details %v", verdict.Confidence, verdict.Details)
	}

	verdict, _ = v.Validate(context.Background(), models.ValidationRequest{Query: "Explain channels.", Response: "Hi. Hi. Hi. Hi."})
	if verdict.Passed {
		t.Error("Expected short repetitive response to fail")
	}
	if verdict.Details["coherence_score"].(float64) >= minCoherence {
		t.Errorf("Expected low coherence, got %v", verdict.Details["coherence_score"])
	}
}

func TestBuildFromConfig(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("folds coherence into quality", func(t *testing.T) {
		cfg := config.Default().Quality
		cfg.EnabledValidators = []string{"quality", "coherence", "safety"}

		r, err := BuildFromConfig(cfg, nil, nil, &logger)
		if err != nil {
			t.Fatalf("BuildFromConfig failed: %v", err)
		}
		if r.Len() != 2 {
			t.Errorf("Expected 2 validators, got %d", r.Len())
		}
		types := r.Types()
		if types[0] != models.ValidationSafety || types[1] != models.ValidationQuality {
			t.Errorf("Unexpected order %v", types)
		}
	})

	t.Run("unknown validator", func(t *testing.T) {
		cfg := config.Default().Quality
		cfg.EnabledValidators = []string{"toxicity"}

		_, err := BuildFromConfig(cfg, nil, nil, &logger)
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		cfg := config.Default().Quality
		cfg.EnabledValidators = nil

		if _, err := BuildFromConfig(cfg, nil, nil, &logger); err == nil {
			t.Error("Expected error for no validators")
		}
	})
}
