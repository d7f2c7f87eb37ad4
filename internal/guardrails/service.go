package guardrails

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/mock_checkers.go -package=mocks . QualityChecker,ComplianceChecker,Recorder

// QualityChecker runs one quality validation round. Implementations must not panic.
type QualityChecker interface {
	Evaluate(ctx context.Context, req models.ValidationRequest) models.QualityReport
}

// ComplianceChecker is a pure PII and medical content scan.
type ComplianceChecker interface {
	ApplyGuardrails(text string, mode models.ComplianceMode) models.ComplianceVerdict
}

// Recorder persists outcomes. Recording failures never change an outcome.
type Recorder interface {
	Record(ctx context.Context, outcome models.UnifiedOutcome) error
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// Service reconciles quality and compliance verdicts into one outcome.
type Service struct {
	quality    QualityChecker
	compliance ComplianceChecker
	recorder   Recorder
	tracer     trace.Tracer

	priority           models.PriorityMode
	complianceMode     models.ComplianceMode
	enableQuality      bool
	enableCompliance   bool
	failOnAnyViolation bool
	enableSanitization bool

	now    func() time.Time
	newID  func() string
	logger *zerolog.Logger
}

func NewService(
	cfg config.UnifiedConfig,
	quality QualityChecker,
	compliance ComplianceChecker,
	logger *zerolog.Logger,
	opts ...Option,
) (*Service, error) {
	priority, err := models.ParsePriorityMode(cfg.PriorityMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	mode, err := models.ParseComplianceMode(cfg.ComplianceMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if cfg.EnableQualityChecks && quality == nil {
		return nil, fmt.Errorf("%w: quality checks enabled without a quality checker", config.ErrInvalidConfig)
	}
	if cfg.EnableComplianceChecks && compliance == nil {
		return nil, fmt.Errorf("%w: compliance checks enabled without a compliance checker", config.ErrInvalidConfig)
	}

	s := &Service{
		quality:            quality,
		compliance:         compliance,
		tracer:             noop.NewTracerProvider().Tracer("guardrails"),
		priority:           priority,
		complianceMode:     mode,
		enableQuality:      cfg.EnableQualityChecks,
		enableCompliance:   cfg.EnableComplianceChecks,
		failOnAnyViolation: cfg.FailOnAnyViolation,
		enableSanitization: cfg.EnableSanitization,
		now:                time.Now,
		newID:              uuid.NewString,
		logger:             logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Strategy() models.PriorityMode {
	return s.priority
}

// ValidateContent always returns a well formed outcome; an unexpected
// failure yields ERROR with the failure message.
func (s *Service) ValidateContent(ctx context.Context, content, query string, resultContext models.ResultContext) (outcome models.UnifiedOutcome) {
	start := s.now()
	requestID := s.newID()

	ctx, span := s.tracer.Start(ctx, "guardrails.validate_content", trace.WithAttributes(
		attribute.String("guardrails.request_id", requestID),
		attribute.String("guardrails.strategy", string(s.priority)),
	))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Str("request_id", requestID).
				Msg("guardrail pipeline failed")
			outcome = errorOutcome(fmt.Sprintf("%v", r))
			span.SetStatus(codes.Error, outcome.OverallMessage)
		}

		outcome.RequestID = requestID
		outcome.Strategy = s.priority
		outcome.Timestamp = start.UTC().Format(time.RFC3339)
		outcome.DurationMs = s.now().Sub(start).Milliseconds()

		span.SetAttributes(
			attribute.String("guardrails.status", string(outcome.OverallStatus)),
			attribute.String("guardrails.risk", string(outcome.RiskAssessment.Overall)),
		)
		span.End()

		s.record(ctx, outcome)

		s.logger.Info().
			Str("request_id", requestID).
			Str("strategy", string(s.priority)).
			Str("status", string(outcome.OverallStatus)).
			Str("risk", string(outcome.RiskAssessment.Overall)).
			Int64("duration_ms", outcome.DurationMs).
			Msg("guardrail validation complete")
	}()

	var r round
	switch s.priority {
	case models.PriorityQualityFirst:
		r = s.qualityFirst(ctx, content, query, resultContext)
	case models.PriorityBalanced:
		r = s.balanced(ctx, content, query, resultContext)
	default:
		r = s.complianceFirst(ctx, content, query, resultContext)
	}

	return s.resolve(content, r)
}

// round carries the subsystem verdicts of one request. A nil verdict means
// the subsystem did not run.
type round struct {
	quality    *models.QualityReport
	compliance *models.ComplianceVerdict
}

func (s *Service) complianceFirst(ctx context.Context, content, query string, rc models.ResultContext) round {
	var r round
	r.compliance = s.checkCompliance(ctx, content)
	if r.compliance != nil && r.compliance.Action == models.ActionBlock {
		return r
	}

	input := content
	if s.enableSanitization && r.compliance != nil &&
		r.compliance.Action == models.ActionSanitize && r.compliance.SanitizedText != "" {
		input = r.compliance.SanitizedText
	}
	r.quality = s.checkQuality(ctx, input, query, rc)
	return r
}

func (s *Service) qualityFirst(ctx context.Context, content, query string, rc models.ResultContext) round {
	var r round
	r.quality = s.checkQuality(ctx, content, query, rc)
	if r.quality != nil && !r.quality.Passed && s.failOnAnyViolation {
		return r
	}
	r.compliance = s.checkCompliance(ctx, content)
	return r
}

func (s *Service) balanced(ctx context.Context, content, query string, rc models.ResultContext) round {
	var r round
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.quality = s.checkQuality(gctx, content, query, rc)
		return nil
	})
	g.Go(func() error {
		r.compliance = s.checkCompliance(gctx, content)
		return nil
	})
	_ = g.Wait()
	return r
}

// checkQuality contains a crashing checker as a failed report.
func (s *Service) checkQuality(ctx context.Context, content, query string, rc models.ResultContext) (report *models.QualityReport) {
	if !s.enableQuality {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "guardrails.quality")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("quality check failed: %v", r)
			s.logger.Error().Str("error", msg).Msg("quality subsystem crashed")
			span.SetStatus(codes.Error, msg)
			report = &models.QualityReport{
				Passed:   false,
				Verdicts: map[models.ValidationType]models.ValidatorVerdict{},
				Error:    msg,
			}
		}
	}()

	q := s.quality.Evaluate(ctx, models.ValidationRequest{
		Query:    query,
		Response: content,
		Context:  rc,
	})
	span.SetAttributes(attribute.Bool("guardrails.quality.passed", q.Passed))
	return &q
}

// checkCompliance contains a crashing checker as a BLOCK verdict.
func (s *Service) checkCompliance(ctx context.Context, content string) (verdict *models.ComplianceVerdict) {
	if !s.enableCompliance {
		return nil
	}

	_, span := s.tracer.Start(ctx, "guardrails.compliance")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("compliance check failed: %v", r)
			s.logger.Error().Str("error", msg).Msg("compliance subsystem crashed")
			span.SetStatus(codes.Error, msg)
			verdict = &models.ComplianceVerdict{
				Action:          models.ActionBlock,
				Message:         msg,
				Findings:        []models.ComplianceFinding{},
				Recommendations: []string{},
				Mode:            s.complianceMode,
				Error:           msg,
			}
		}
	}()

	c := s.compliance.ApplyGuardrails(content, s.complianceMode)
	span.SetAttributes(
		attribute.String("guardrails.compliance.action", string(c.Action)),
		attribute.Int("guardrails.compliance.risk_score", c.RiskScore),
	)
	return &c
}

func (s *Service) record(ctx context.Context, outcome models.UnifiedOutcome) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, outcome); err != nil {
		s.logger.Warn().
			Err(err).
			Str("request_id", outcome.RequestID).
			Msg("failed to record guardrail outcome")
	}
}
