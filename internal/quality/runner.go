package quality

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

// taskResult keeps a validator's verdict and error apart so the reducer,
// not the goroutine, decides how a failure counts.
type taskResult struct {
	validatorType models.ValidationType
	verdict       models.ValidatorVerdict
	err           error
}

func (e *Engine) run(ctx context.Context, req models.ValidationRequest, types []models.ValidationType) map[models.ValidationType]models.ValidatorVerdict {
	if e.strategy == models.StrategySequential {
		return e.runSequential(ctx, req, types)
	}
	return e.runParallel(ctx, req, types)
}

func (e *Engine) runParallel(ctx context.Context, req models.ValidationRequest, types []models.ValidationType) map[models.ValidationType]models.ValidatorVerdict {
	results := make(chan taskResult, len(types))
	var wg sync.WaitGroup

	for _, t := range types {
		wg.Add(1)
		go func(t models.ValidationType) {
			defer wg.Done()
			results <- e.runOne(ctx, t, req)
		}(t)
	}

	wg.Wait()
	close(results)

	verdicts := make(map[models.ValidationType]models.ValidatorVerdict, len(types))
	for res := range results {
		verdicts[res.validatorType] = e.toVerdict(res)
	}
	return verdicts
}

// runSequential stops at the first failure under STRICT; the remaining
// validators could not change the outcome.
func (e *Engine) runSequential(ctx context.Context, req models.ValidationRequest, types []models.ValidationType) map[models.ValidationType]models.ValidatorVerdict {
	verdicts := make(map[models.ValidationType]models.ValidatorVerdict, len(types))
	for _, t := range types {
		v := e.toVerdict(e.runOne(ctx, t, req))
		verdicts[t] = v

		if e.level == models.LevelStrict && !v.Passed {
			e.logger.Debug().
				Str("validator", string(t)).
				Msg("strict sequential run short-circuited")
			break
		}
	}
	return verdicts
}

func (e *Engine) runOne(ctx context.Context, t models.ValidationType, req models.ValidationRequest) (res taskResult) {
	res.validatorType = t
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("validator %s panicked: %v", t, r)
		}
		res.verdict.Duration = time.Since(start)
	}()

	v, ok := e.registry.Get(t)
	if !ok {
		res.err = fmt.Errorf("%w: %s", ErrValidatorNotFound, t)
		return res
	}
	res.verdict, res.err = v.Validate(ctx, req)
	return res
}

// toVerdict turns a failed task into a zero-confidence verdict that is
// forgiven only under LENIENT.
func (e *Engine) toVerdict(res taskResult) models.ValidatorVerdict {
	if res.err == nil {
		res.verdict.ValidatorType = res.validatorType
		return res.verdict
	}

	e.logger.Error().
		Err(res.err).
		Str("validator", string(res.validatorType)).
		Msg("validator failed")

	return models.ValidatorVerdict{
		ValidatorType: res.validatorType,
		Passed:        e.level == models.LevelLenient,
		Confidence:    0,
		Error:         res.err.Error(),
		Duration:      res.verdict.Duration,
	}
}
