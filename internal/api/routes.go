package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/validate").
			To(handler.Validate).
			Doc("Run the unified quality and compliance guardrails").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(models.ValidationInput{}).
			Writes(models.UnifiedOutcome{}).
			Returns(200, "OK", models.UnifiedOutcome{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/quality").
			To(handler.ValidateQuality).
			Doc("Run the quality validators only").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(models.ValidationInput{}).
			Writes(models.QualityReport{}).
			Returns(200, "OK", models.QualityReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/generation").
			To(handler.ValidateGeneration).
			Doc("Validate a generated answer against its source documents").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(GenerationRequest{}).
			Writes(models.GenerationReport{}).
			Returns(200, "OK", models.GenerationReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/validator/{validator_type}").
			To(handler.RunValidator).
			Doc("Run a single validator").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Param(ws.PathParameter("validator_type", "Validator (relevance, hallucination, safety, quality, coherence, completeness)").DataType("string")).
			Param(ws.QueryParameter("threshold", "Pass/fail threshold override (0.0-1.0)").DataType("number").Required(false)).
			Reads(models.ValidationInput{}).
			Writes(models.ValidatorRun{}).
			Returns(200, "OK", models.ValidatorRun{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Validator Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/compliance").
			To(handler.CheckCompliance).
			Doc("Scan text for PII and medical content").
			Metadata(restfulspec.KeyOpenAPITags, []string{"compliance"}).
			Param(ws.QueryParameter("mode", "Compliance mode (strict, moderate, permissive)").DataType("string").Required(false)).
			Reads(ComplianceRequest{}).
			Writes(models.ComplianceVerdict{}).
			Returns(200, "OK", models.ComplianceVerdict{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	container.Add(ws)
}
