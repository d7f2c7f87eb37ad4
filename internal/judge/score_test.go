package judge

import (
	"context"
	"strings"
	"testing"
)

type stubClient struct {
	resp   Response
	prompt string
}

func (s *stubClient) Invoke(ctx context.Context, prompt string) Response {
	s.prompt = prompt
	return s.resp
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name             string
		content          string
		expectedScore    float64
		expectedFallback bool
	}{
		{"plain float", "0.85", 0.85, false},
		{"integer one", "1", 1.0, false},
		{"integer zero", "0", 0.0, false},
		{"embedded in prose", "I would rate this 0.7 overall.", 0.7, false},
		{"one point zero", "Score: 1.0", 1.0, false},
		{"markdown block", "```\n0.42\n```", 0.42, false},
		{"out of range clamped", "1.5", 1.0, false},
		{"no number", "looks good to me", FallbackScore, true},
		{"empty", "", FallbackScore, true},
		{"percent only", "85%", FallbackScore, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, fallback := ParseScore(tt.content)
			if score != tt.expectedScore {
				t.Errorf("Expected score %f, got %f", tt.expectedScore, score)
			}
			if fallback != tt.expectedFallback {
				t.Errorf("Expected fallback %v, got %v", tt.expectedFallback, fallback)
			}
		})
	}
}

func TestAsk(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		score := Ask(context.Background(), &stubClient{resp: Response{Success: true, Result: "0.6"}}, "p")
		if score.Value != 0.6 || score.ParseFallback || score.Failed() {
			t.Errorf("Unexpected score %+v", score)
		}
	})

	t.Run("call failure", func(t *testing.T) {
		score := Ask(context.Background(), &stubClient{resp: Response{Success: false, Error: "timeout"}}, "p")
		if !score.Failed() {
			t.Error("Expected failed score")
		}
		if score.Value != FallbackScore {
			t.Errorf("Expected fallback value, got %f", score.Value)
		}
	})

	t.Run("unparseable", func(t *testing.T) {
		score := Ask(context.Background(), &stubClient{resp: Response{Success: true, Result: "great"}}, "p")
		if !score.ParseFallback {
			t.Error("Expected parse fallback")
		}
	})
}

func TestPrompts(t *testing.T) {
	t.Run("renders defaults", func(t *testing.T) {
		p, err := NewPrompts(nil)
		if err != nil {
			t.Fatalf("NewPrompts failed: %v", err)
		}

		out, err := p.Render(KindRelevance, PromptData{Query: "What is Go?", Response: "A language."})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(out, "What is Go?") || !strings.Contains(out, "A language.") {
			t.Errorf("Prompt missing inputs: %s", out)
		}
	})

	t.Run("override", func(t *testing.T) {
		p, err := NewPrompts(map[string]string{"safety": "S: {{.Response}}"})
		if err != nil {
			t.Fatalf("NewPrompts failed: %v", err)
		}
		out, _ := p.Render(KindSafety, PromptData{Response: "hello"})
		if out != "S: hello" {
			t.Errorf("Expected override, got %q", out)
		}
	})

	t.Run("invalid template", func(t *testing.T) {
		if _, err := NewPrompts(map[string]string{"safety": "{{.Invalid"}); err == nil {
			t.Error("Expected error for invalid template")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := NewPrompts(map[string]string{"toxicity": "x"}); err == nil {
			t.Error("Expected error for unknown prompt")
		}
	})
}
