package bedrock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
)

type fakeRuntime struct {
	errs  []error
	body  string
	calls int
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func newTestClient(rt RuntimeAPI) *Client {
	return &Client{
		Client:       rt,
		ModelID:      "anthropic.claude-test",
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

const okBody = `{"content":[{"type":"text","text":"0.85"}],"stop_reason":"end_turn"}`

func TestInvokeModel_ParsesTextBlocks(t *testing.T) {
	rt := &fakeRuntime{body: okBody}
	resp, err := newTestClient(rt).InvokeModel(context.Background(), llm.LLMRequest{Prompt: "rate", MaxTokens: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "0.85" {
		t.Errorf("expected content 0.85, got %q", resp.Content)
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("expected stop reason end_turn, got %q", resp.StopReason)
	}
}

func TestInvokeModelWithRetry(t *testing.T) {
	tests := []struct {
		name        string
		errs        []error
		expectErr   bool
		expectCalls int
	}{
		{
			name:        "succeeds first try",
			expectCalls: 1,
		},
		{
			name:        "retries throttling then succeeds",
			errs:        []error{errors.New("ThrottlingException: Rate exceeded")},
			expectCalls: 2,
		},
		{
			name:        "does not retry validation errors",
			errs:        []error{errors.New("ValidationException: bad input")},
			expectErr:   true,
			expectCalls: 1,
		},
		{
			name: "gives up after max retries",
			errs: []error{
				errors.New("ServiceUnavailableException"),
				errors.New("ServiceUnavailableException"),
				errors.New("ServiceUnavailableException"),
			},
			expectErr:   true,
			expectCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{errs: tt.errs, body: okBody}
			_, err := newTestClient(rt).InvokeModelWithRetry(context.Background(), llm.LLMRequest{Prompt: "p"})

			if tt.expectErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.calls != tt.expectCalls {
				t.Errorf("expected %d calls, got %d", tt.expectCalls, rt.calls)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{errors.New("TooManyRequestsException"), true},
		{errors.New("InternalServerException"), true},
		{errors.New("read: connection reset by peer"), true},
		{errors.New("AccessDeniedException"), false},
	}
	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.expected {
			t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}
