package llm

import (
	"context"
)

// LLMClient invokes a hosted judge model.
// Implementations own their transport retries; callers own the deadline via ctx.
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}
