package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
)

const (
	StepFetchMatches    = "fetch matches"
	StepFetchCategories = "fetch categories"
	StepCombine         = "merge matches and categories"
)

// Step is one unit of the pipeline. Expected failures are handled inside the
// step; a returned error or a panic stops the whole run.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Pipeline struct {
	steps  []Step
	logger *logging.Logger
}

func NewPipeline(logger *logging.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		steps:  steps,
		logger: logger,
	}
}

// Run executes the steps in order. It returns ErrInterrupted when ctx is
// cancelled between steps and ErrStepFailed when a step errors or panics.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Pipeline.Run", attribute.Int("pipeline.steps", len(p.steps)))
	defer span.End()

	started := time.Now()
	p.logger.InfoContext(ctx, "starting hotstreak data pipeline", "steps", len(p.steps))

	for i, step := range p.steps {
		if ctx.Err() != nil {
			p.logger.WarnContext(ctx, "pipeline interrupted, exiting", "next_step", step.Name, "completed", i)
			return fmt.Errorf("%w: before step %q", ErrInterrupted, step.Name)
		}
		if err := p.runStep(ctx, i, step); err != nil {
			recordSpanError(span, err)
			return err
		}
	}

	p.logger.InfoContext(ctx, "all steps completed successfully", "duration", time.Since(started).Round(time.Millisecond))
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, index int, step Step) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Pipeline.step", attribute.String("pipeline.step", step.Name))
	defer span.End()

	started := time.Now()
	p.logger.InfoContext(ctx, "step started", "step", step.Name, "position", fmt.Sprintf("%d/%d", index+1, len(p.steps)))

	var (
		err     error
		catcher panics.Catcher
	)
	catcher.Try(func() {
		err = step.Run(ctx)
	})

	if recovered := catcher.Recovered(); recovered != nil {
		cause := recovered.AsError()
		p.logger.ErrorContext(ctx, "step panicked", "step", step.Name, "panic", fmt.Sprint(recovered.Value), "stack", string(recovered.Stack))
		recordSpanError(span, cause)
		return fmt.Errorf("%w: %s: %w", ErrStepFailed, step.Name, cause)
	}

	if err != nil {
		if ctx.Err() != nil && crerr.Is(err, context.Canceled) {
			p.logger.WarnContext(ctx, "pipeline interrupted, exiting", "step", step.Name)
			return fmt.Errorf("%w: during step %q", ErrInterrupted, step.Name)
		}
		p.logger.ErrorContext(ctx, "step failed", "step", step.Name, "error", err, "trace", fmt.Sprintf("%+v", err))
		recordSpanError(span, err)
		return fmt.Errorf("%w: %s: %w", ErrStepFailed, step.Name, err)
	}

	p.logger.InfoContext(ctx, "step completed successfully", "step", step.Name, "duration", time.Since(started).Round(time.Millisecond))
	return nil
}

// NewFetchStep adapts a fetcher to a Step. With strict set, a failed fetch
// (as opposed to an empty one) becomes a step error.
func NewFetchStep[T any](name string, fetch func(ctx context.Context) FetchResult[T], strict bool) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context) error {
			result := fetch(ctx)
			if strict && result.Failed() {
				return fmt.Errorf("%w: %w", ErrFetchFailed, result.Err)
			}
			return nil
		},
	}
}

func NewCombineStep(name string, combine func(ctx context.Context) CombineResult) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context) error {
			combine(ctx)
			return nil
		},
	}
}
