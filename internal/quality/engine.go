package quality

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/aggregator"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/validators"
	"github.com/rs/zerolog"
)

var ErrValidatorNotFound = errors.New("validator not found")

// Engine runs the registered validators, applies the verdict cache and
// reduces verdicts under one enforcement level.
type Engine struct {
	level               models.EnforcementLevel
	strategy            models.ConcurrencyStrategy
	confidenceThreshold float64
	registry            *validators.Registry
	aggregator          *aggregator.Aggregator
	cache               cache.VerdictCache
	judge               judge.Client
	prompts             *judge.Prompts
	now                 func() time.Time
	logger              *zerolog.Logger
}

// NewEngine validates cfg and wires the engine. verdictCache is ignored when
// caching is disabled; client may be nil.
func NewEngine(
	cfg config.QualityConfig,
	registry *validators.Registry,
	verdictCache cache.VerdictCache,
	client judge.Client,
	prompts *judge.Prompts,
	logger *zerolog.Logger,
) (*Engine, error) {
	level, err := models.ParseEnforcementLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if registry == nil || registry.Len() == 0 {
		return nil, fmt.Errorf("%w: engine needs at least one validator", config.ErrInvalidConfig)
	}
	if prompts == nil {
		if prompts, err = judge.NewPrompts(nil); err != nil {
			return nil, err
		}
	}

	strategy := models.StrategyParallel
	if !cfg.ParallelValidation {
		strategy = models.StrategySequential
	}
	if !cfg.EnableCaching {
		verdictCache = nil
	}

	return &Engine{
		level:               level,
		strategy:            strategy,
		confidenceThreshold: cfg.ConfidenceThreshold,
		registry:            registry,
		aggregator:          aggregator.NewAggregator(level, cfg.LenientFailureRatio, logger),
		cache:               verdictCache,
		judge:               client,
		prompts:             prompts,
		now:                 time.Now,
		logger:              logger,
	}, nil
}

func (e *Engine) Level() models.EnforcementLevel {
	return e.level
}

// ValidateResult reports whether the response may be released.
func (e *Engine) ValidateResult(ctx context.Context, query, response string, resultContext models.ResultContext) bool {
	return e.Evaluate(ctx, models.ValidationRequest{
		Query:    query,
		Response: response,
		Context:  resultContext,
	}).Passed
}

// Evaluate is the detailed form of ValidateResult. It never panics; an
// unexpected failure passes only under LENIENT.
func (e *Engine) Evaluate(ctx context.Context, req models.ValidationRequest) (report models.QualityReport) {
	start := time.Now()
	report = models.QualityReport{
		Level:    e.level,
		Verdicts: map[models.ValidationType]models.ValidatorVerdict{},
	}

	if e.level == models.LevelDisabled {
		report.Passed = true
		report.Confidence = 1.0
		return report
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Interface("panic", r).
				Str("level", string(e.level)).
				Msg("quality evaluation failed")
			report = models.QualityReport{
				Passed:   e.level == models.LevelLenient,
				Level:    e.level,
				Verdicts: map[models.ValidationType]models.ValidatorVerdict{},
				Error:    fmt.Sprintf("quality evaluation failed: %v", r),
			}
		}
	}()

	key := cache.Key(req.Query, req.Response)
	if cached, ok := e.lookup(ctx, key); ok {
		return cached
	}

	types, skipped := e.plan(req)
	verdicts := e.run(ctx, req, types)
	decision := e.aggregator.Aggregate(verdicts)

	report.Passed = decision.Passed
	report.Confidence = decision.Confidence
	report.Verdicts = verdicts
	report.Failed = decision.Failed
	report.Skipped = skipped

	e.store(ctx, key, report)

	e.logger.Info().
		Str("level", string(e.level)).
		Str("strategy", string(e.strategy)).
		Int("validators", len(verdicts)).
		Bool("passed", report.Passed).
		Dur("duration", time.Since(start)).
		Msg("quality evaluation complete")

	return report
}

// plan returns the validators to run and those not applicable to req.
func (e *Engine) plan(req models.ValidationRequest) ([]models.ValidationType, []models.ValidationType) {
	var run, skipped []models.ValidationType
	for _, t := range e.registry.Types() {
		if t == models.ValidationRelevance && req.Query == "" {
			skipped = append(skipped, t)
			continue
		}
		run = append(run, t)
	}
	return run, skipped
}

func (e *Engine) lookup(ctx context.Context, key string) (models.QualityReport, bool) {
	if e.cache == nil {
		return models.QualityReport{}, false
	}

	entry, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn().Err(err).Msg("verdict cache lookup failed")
		return models.QualityReport{}, false
	}
	if !ok {
		return models.QualityReport{}, false
	}

	e.logger.Debug().Str("key", key).Msg("verdict cache hit")
	return models.QualityReport{
		Passed:     entry.IsValid,
		Level:      e.level,
		Confidence: entry.Confidence,
		Verdicts:   entry.Verdicts,
		Failed:     entry.Failed,
		Skipped:    entry.Skipped,
		Cached:     true,
	}, true
}

func (e *Engine) store(ctx context.Context, key string, report models.QualityReport) {
	if e.cache == nil {
		return
	}

	err := e.cache.Put(ctx, cache.CachedVerdict{
		Key:        key,
		IsValid:    report.Passed,
		Confidence: report.Confidence,
		Verdicts:   report.Verdicts,
		Failed:     report.Failed,
		Skipped:    report.Skipped,
		Timestamp:  e.now(),
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("verdict cache store failed")
	}
}

// RunValidator runs a single validator outside the cache and reducer.
func (e *Engine) RunValidator(ctx context.Context, t models.ValidationType, req models.ValidationRequest) (models.ValidatorVerdict, error) {
	if _, ok := e.registry.Get(t); !ok {
		return models.ValidatorVerdict{}, fmt.Errorf("%w: %s", ErrValidatorNotFound, t)
	}
	return e.toVerdict(e.runOne(ctx, t, req)), nil
}
