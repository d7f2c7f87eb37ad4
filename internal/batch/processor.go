package batch

import (
	"context"
	"strconv"
	"sync"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

type ContentValidator interface {
	ValidateContent(ctx context.Context, content, query string, resultContext models.ResultContext) models.UnifiedOutcome
}

type Result struct {
	ID             string                 `json:"id"`
	LineNumber     int                    `json:"line"`
	ExpectedStatus string                 `json:"expected_status,omitempty"`
	Outcome        *models.UnifiedOutcome `json:"outcome,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

type Processor struct {
	validator ContentValidator
	workers   int
	logger    *zerolog.Logger
}

func NewProcessor(validator ContentValidator, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{validator: validator, workers: workers, logger: logger}
}

// Process fans records out to the worker pool. Results arrive in completion
// order; unparsable records yield a Result carrying the parse error.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	jobs := make(chan InputRecord)
	results := make(chan Result, p.workers)

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				results <- p.processOne(ctx, record)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case jobs <- record:
			case <-ctx.Done():
				p.logger.Warn().Int("line", record.LineNumber).Msg("Processing cancelled")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) Result {
	result := Result{
		ID:         record.Request.ID,
		LineNumber: record.LineNumber,
	}
	if result.ID == "" {
		result.ID = "line-" + strconv.Itoa(record.LineNumber)
	}
	if record.Request.ExpectedStatus != nil {
		result.ExpectedStatus = *record.Request.ExpectedStatus
	}

	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	in := record.Request.ValidationInput
	outcome := p.validator.ValidateContent(ctx, in.Content, in.Query, in.Context)
	result.Outcome = &outcome

	p.logger.Debug().
		Str("id", result.ID).
		Str("status", string(outcome.OverallStatus)).
		Msg("Record validated")

	return result
}
