package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/executor"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

type ContentValidator interface {
	ValidateContent(ctx context.Context, content, query string, resultContext models.ResultContext) models.UnifiedOutcome
	Strategy() models.PriorityMode
}

type QualityEvaluator interface {
	Evaluate(ctx context.Context, req models.ValidationRequest) models.QualityReport
	ValidateGeneration(ctx context.Context, query, response string, sources []string) models.GenerationReport
}

type ComplianceScanner interface {
	ApplyGuardrails(text string, mode models.ComplianceMode) models.ComplianceVerdict
}

type ValidatorRunner interface {
	Execute(ctx context.Context, name string, threshold *float64, input models.ValidationInput) (models.ValidatorRun, error)
}

type Handler struct {
	guardrails  ContentValidator
	quality     QualityEvaluator
	compliance  ComplianceScanner
	validators  ValidatorRunner
	defaultMode models.ComplianceMode
	logger      *zerolog.Logger
}

func NewHandler(
	guardrails ContentValidator,
	quality QualityEvaluator,
	compliance ComplianceScanner,
	validators ValidatorRunner,
	defaultMode models.ComplianceMode,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		guardrails:  guardrails,
		quality:     quality,
		compliance:  compliance,
		validators:  validators,
		defaultMode: defaultMode,
		logger:      logger,
	}
}

// POST /api/v1/validate
// Body: ValidationInput
// Returns: UnifiedOutcome
func (h *Handler) Validate(req *restful.Request, resp *restful.Response) {
	input, ok := h.readInput(req, resp)
	if !ok {
		return
	}

	h.logger.Info().
		Str("id", input.ID).
		Bool("has_query", input.Query != "").
		Int("sources", len(input.Context.SourceDocuments)).
		Msg("Start validation")

	outcome := h.guardrails.ValidateContent(req.Request.Context(), input.Content, input.Query, input.Context)

	h.logger.Info().
		Str("id", input.ID).
		Str("request_id", outcome.RequestID).
		Str("status", string(outcome.OverallStatus)).
		Str("risk", string(outcome.RiskAssessment.Overall)).
		Msg("Validation complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, outcome)
}

// POST /api/v1/validate/quality
func (h *Handler) ValidateQuality(req *restful.Request, resp *restful.Response) {
	input, ok := h.readInput(req, resp)
	if !ok {
		return
	}

	report := h.quality.Evaluate(req.Request.Context(), models.ValidationRequest{
		Query:    input.Query,
		Response: input.Content,
		Context:  input.Context,
	})

	h.logger.Info().
		Str("id", input.ID).
		Bool("passed", report.Passed).
		Bool("cached", report.Cached).
		Float64("confidence", report.Confidence).
		Msg("Quality validation complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/validate/generation
func (h *Handler) ValidateGeneration(req *restful.Request, resp *restful.Response) {
	var genRequest GenerationRequest
	if err := req.ReadEntity(&genRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if genRequest.Response == "" {
		middleware.HandleError(resp, middleware.ErrEmptyContent, http.StatusBadRequest)
		return
	}

	report := h.quality.ValidateGeneration(req.Request.Context(), genRequest.Query, genRequest.Response, genRequest.Sources)

	h.logger.Info().
		Bool("passed", report.Passed).
		Float64("overall_score", report.OverallScore).
		Int("sources", report.SourcesConsidered).
		Msg("Generation validation complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/validate/validator/{validator_type}
func (h *Handler) RunValidator(req *restful.Request, resp *restful.Response) {
	validatorType := req.PathParameter("validator_type")

	var threshold *float64
	if s := req.QueryParameter("threshold"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || v > 1 {
			h.logger.Warn().Str("threshold", s).Msg("Invalid threshold")
			middleware.HandleError(resp, middleware.ErrInvalidThreshold, http.StatusBadRequest)
			return
		}
		threshold = &v
	}

	input, ok := h.readInput(req, resp)
	if !ok {
		return
	}

	run, err := h.validators.Execute(req.Request.Context(), validatorType, threshold, input)
	if err != nil {
		if errors.Is(err, executor.ErrValidatorNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("id", run.ID).
		Str("validator", string(run.Validator)).
		Bool("passed", run.Passed).
		Float64("confidence", run.Verdict.Confidence).
		Msg("Validator run complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, run)
}

// POST /api/v1/compliance?mode=
func (h *Handler) CheckCompliance(req *restful.Request, resp *restful.Response) {
	mode := h.defaultMode
	if s := req.QueryParameter("mode"); s != "" {
		parsed, err := models.ParseComplianceMode(s)
		if err != nil {
			middleware.HandleError(resp, middleware.ErrInvalidMode, http.StatusBadRequest)
			return
		}
		mode = parsed
	}

	var complianceRequest ComplianceRequest
	if err := req.ReadEntity(&complianceRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	verdict := h.compliance.ApplyGuardrails(complianceRequest.Text, mode)

	h.logger.Info().
		Str("mode", string(mode)).
		Str("action", string(verdict.Action)).
		Int("risk_score", verdict.RiskScore).
		Int("findings", len(verdict.Findings)).
		Msg("Compliance check complete")

	_ = resp.WriteHeaderAndEntity(http.StatusOK, verdict)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  "1.0.0",
		Strategy: string(h.guardrails.Strategy()),
	})
}

func (h *Handler) readInput(req *restful.Request, resp *restful.Response) (models.ValidationInput, bool) {
	var input models.ValidationInput
	if err := req.ReadEntity(&input); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return input, false
	}
	if input.Content == "" {
		middleware.HandleError(resp, middleware.ErrEmptyContent, http.StatusBadRequest)
		return input, false
	}
	return input, true
}
