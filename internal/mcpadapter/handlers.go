package mcpadapter

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

type ContentValidator interface {
	ValidateContent(ctx context.Context, content, query string, resultContext models.ResultContext) models.UnifiedOutcome
}

type GenerationValidator interface {
	ValidateGeneration(ctx context.Context, query, response string, sources []string) models.GenerationReport
}

type ComplianceScanner interface {
	ApplyGuardrails(text string, mode models.ComplianceMode) models.ComplianceVerdict
}

type ValidatorRunner interface {
	Execute(ctx context.Context, name string, threshold *float64, input models.ValidationInput) (models.ValidatorRun, error)
}

var errEmptyContent = errors.New("content must not be empty")

// CheckComplianceInput is the MCP tool input schema for compliance scans.
type CheckComplianceInput struct {
	Text string `json:"text" jsonschema:"text to scan for PII and medical content"`
	Mode string `json:"mode,omitempty" jsonschema:"compliance mode: strict, moderate or permissive (default: server policy)"`
}

// ValidateGenerationInput is the MCP tool input schema for generation checks.
type ValidateGenerationInput struct {
	Query    string   `json:"query" jsonschema:"user's original query"`
	Response string   `json:"response" jsonschema:"generated answer to validate"`
	Sources  []string `json:"sources,omitempty" jsonschema:"source documents the answer should be attributable to (first 3 are used)"`
}

// RunValidatorInput is the MCP tool input schema for single validator runs.
type RunValidatorInput struct {
	Validator string               `json:"validator" jsonschema:"validator: relevance, hallucination, safety, quality, coherence or completeness"`
	Threshold *float64             `json:"threshold,omitempty" jsonschema:"optional pass/fail threshold override (0.0-1.0)"`
	ID        string               `json:"id,omitempty" jsonschema:"optional caller supplied identifier"`
	Content   string               `json:"content" jsonschema:"the AI generated text to validate"`
	Query     string               `json:"query,omitempty" jsonschema:"the user query the content answers"`
	Context   models.ResultContext `json:"context,omitempty" jsonschema:"retrieval context and hints"`
}

// NewValidateContentHandler returns a tool handler running the unified guardrails.
// Pass the returned function to mcp.AddTool.
func NewValidateContentHandler(v ContentValidator) func(context.Context, *mcp.CallToolRequest, models.ValidationInput) (*mcp.CallToolResult, models.UnifiedOutcome, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input models.ValidationInput) (*mcp.CallToolResult, models.UnifiedOutcome, error) {
		if input.Content == "" {
			return nil, models.UnifiedOutcome{}, errEmptyContent
		}
		return nil, v.ValidateContent(ctx, input.Content, input.Query, input.Context), nil
	}
}

func NewCheckComplianceHandler(c ComplianceScanner, defaultMode models.ComplianceMode) func(context.Context, *mcp.CallToolRequest, CheckComplianceInput) (*mcp.CallToolResult, models.ComplianceVerdict, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckComplianceInput) (*mcp.CallToolResult, models.ComplianceVerdict, error) {
		mode := defaultMode
		if input.Mode != "" {
			parsed, err := models.ParseComplianceMode(input.Mode)
			if err != nil {
				return nil, models.ComplianceVerdict{}, err
			}
			mode = parsed
		}
		return nil, c.ApplyGuardrails(input.Text, mode), nil
	}
}

func NewValidateGenerationHandler(q GenerationValidator) func(context.Context, *mcp.CallToolRequest, ValidateGenerationInput) (*mcp.CallToolResult, models.GenerationReport, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateGenerationInput) (*mcp.CallToolResult, models.GenerationReport, error) {
		if input.Response == "" {
			return nil, models.GenerationReport{}, errEmptyContent
		}
		return nil, q.ValidateGeneration(ctx, input.Query, input.Response, input.Sources), nil
	}
}

func NewRunValidatorHandler(r ValidatorRunner) func(context.Context, *mcp.CallToolRequest, RunValidatorInput) (*mcp.CallToolResult, models.ValidatorRun, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RunValidatorInput) (*mcp.CallToolResult, models.ValidatorRun, error) {
		if input.Content == "" {
			return nil, models.ValidatorRun{}, errEmptyContent
		}
		run, err := r.Execute(ctx, input.Validator, input.Threshold, models.ValidationInput{
			ID:      input.ID,
			Content: input.Content,
			Query:   input.Query,
			Context: input.Context,
		})
		return nil, run, err
	}
}
