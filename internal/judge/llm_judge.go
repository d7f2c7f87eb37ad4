package judge

import (
	"context"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/rs/zerolog"
)

// LLMJudge adapts an llm.LLMClient to the judge Client contract with a
// per-call timeout.
type LLMJudge struct {
	llmClient   llm.LLMClient
	timeout     time.Duration
	maxTokens   int
	temperature float64
	retry       bool
	logger      *zerolog.Logger
}

func NewLLMJudge(llmClient llm.LLMClient, cfg config.JudgeConfig, logger *zerolog.Logger) *LLMJudge {
	return &LLMJudge{
		llmClient:   llmClient,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		retry:       cfg.Retry,
		logger:      logger,
	}
}

func (j *LLMJudge) Invoke(ctx context.Context, prompt string) Response {
	now := time.Now()

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	request := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   j.maxTokens,
		Temperature: j.temperature,
	}

	var (
		resp *llm.LLMResponse
		err  error
	)
	if j.retry {
		resp, err = j.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = j.llmClient.InvokeModel(ctx, request)
	}

	if err != nil {
		j.logger.Warn().
			Err(err).
			Dur("duration", time.Since(now)).
			Msg("judge call failed")
		return Response{Success: false, Error: err.Error()}
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		j.logger.Warn().Msg("judge returned empty content")
		return Response{Success: false, Error: "empty judge response"}
	}

	j.logger.Debug().
		Str("stop_reason", resp.StopReason).
		Dur("duration", time.Since(now)).
		Msg("judge call completed")

	return Response{Success: true, Result: resp.Content}
}
