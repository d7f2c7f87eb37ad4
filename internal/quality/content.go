package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"golang.org/x/sync/errgroup"
)

const maxGenerationSources = 3

// ValidateContent validates text that has no accompanying query, so relevance is skipped.
func (e *Engine) ValidateContent(ctx context.Context, text string) models.ContentReport {
	report := e.Evaluate(ctx, models.ValidationRequest{Response: text})

	out := models.ContentReport{
		Passed:          report.Passed,
		Confidence:      report.Confidence,
		Warnings:        []string{},
		ComplianceScore: 1.0,
	}

	if report.Error != "" {
		out.Warnings = append(out.Warnings, report.Error)
	}

	passed := 0
	for _, t := range models.AllValidationTypes {
		v, ok := report.Verdicts[t]
		if !ok {
			continue
		}
		switch {
		case v.Error != "":
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s validator error: %s", t, v.Error))
		case !v.Passed:
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s validation failed (confidence %.2f)", t, v.Confidence))
		case v.Confidence < e.confidenceThreshold:
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s confidence %.2f below %.2f", t, v.Confidence, e.confidenceThreshold))
		}
		if v.Passed {
			passed++
		}
	}
	if n := len(report.Verdicts); n > 0 {
		out.ComplianceScore = float64(passed) / float64(n)
	}

	return out
}

// ValidateGeneration runs a full quality round and additionally asks the judge
// for source attribution and factual consistency over up to three sources.
func (e *Engine) ValidateGeneration(ctx context.Context, query, response string, sources []string) models.GenerationReport {
	quality := e.Evaluate(ctx, models.ValidationRequest{
		Query:    query,
		Response: response,
		Context:  models.ResultContext{SourceDocuments: sources},
	})

	if len(sources) > maxGenerationSources {
		sources = sources[:maxGenerationSources]
	}

	report := models.GenerationReport{
		Passed:            quality.Passed,
		Quality:           quality,
		SourcesConsidered: len(sources),
	}

	switch {
	case e.judge == nil:
		report.JudgeUnavailable = true
		report.AttributionScore, report.ConsistencyScore = judge.FallbackScore, judge.FallbackScore
		report.AttributionDetails = models.JudgeDetail{Error: "judge unavailable"}
		report.ConsistencyDetails = models.JudgeDetail{Error: "judge unavailable"}
	case len(sources) == 0:
		report.AttributionScore, report.ConsistencyScore = judge.FallbackScore, judge.FallbackScore
		report.AttributionDetails = models.JudgeDetail{Error: "no source documents"}
		report.ConsistencyDetails = models.JudgeDetail{Error: "no source documents"}
	default:
		data := judge.PromptData{
			Query:    query,
			Response: response,
			Sources:  strings.Join(sources, "\n\n"),
		}

		var attribution, consistency judge.Score
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			attribution = e.askJudge(gctx, judge.KindAttribution, data)
			return nil
		})
		g.Go(func() error {
			consistency = e.askJudge(gctx, judge.KindConsistency, data)
			return nil
		})
		_ = g.Wait()

		report.AttributionScore = attribution.Value
		report.AttributionDetails = models.JudgeDetail{ParseFallback: attribution.ParseFallback, Error: attribution.Err}
		report.ConsistencyScore = consistency.Value
		report.ConsistencyDetails = models.JudgeDetail{ParseFallback: consistency.ParseFallback, Error: consistency.Err}
	}

	report.OverallScore = (quality.Confidence + report.AttributionScore + report.ConsistencyScore) / 3

	e.logger.Info().
		Bool("passed", report.Passed).
		Float64("attribution", report.AttributionScore).
		Float64("consistency", report.ConsistencyScore).
		Int("sources", report.SourcesConsidered).
		Msg("generation validation complete")

	return report
}

// askJudge never fails; render or call errors yield the fallback score.
func (e *Engine) askJudge(ctx context.Context, kind judge.Kind, data judge.PromptData) (score judge.Score) {
	defer func() {
		if r := recover(); r != nil {
			score = judge.Score{Value: judge.FallbackScore, Err: fmt.Sprintf("judge %s panicked: %v", kind, r)}
		}
	}()

	prompt, err := e.prompts.Render(kind, data)
	if err != nil {
		return judge.Score{Value: judge.FallbackScore, Err: err.Error()}
	}
	return judge.Ask(ctx, e.judge, prompt)
}
