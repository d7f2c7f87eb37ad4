package mcpadapter

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

type Tools struct {
	Guardrails  ContentValidator
	Generation  GenerationValidator
	Compliance  ComplianceScanner
	Validators  ValidatorRunner
	DefaultMode models.ComplianceMode
}

func NewServer(tools Tools) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "guardrail-agent",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_content",
		Description: "Run the unified quality and compliance guardrails on AI generated content. Returns APPROVED, SANITIZED, WARNING, BLOCKED or ERROR with sanitized content and a risk assessment.",
	}, NewValidateContentHandler(tools.Guardrails))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_compliance",
		Description: "Scan text for PII and medical information and return BLOCK, SANITIZE or ALLOW with redacted text.",
	}, NewCheckComplianceHandler(tools.Compliance, tools.DefaultMode))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_generation",
		Description: "Validate a generated answer for quality, source attribution and factual consistency against up to 3 source documents.",
	}, NewValidateGenerationHandler(tools.Generation))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_validator",
		Description: "Run a single validator (relevance, hallucination, safety, quality). Faster than the full pipeline.",
	}, NewRunValidatorHandler(tools.Validators))

	return server
}
