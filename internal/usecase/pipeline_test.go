package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/match"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
)

func recordingStep(name string, calls *[]string, err error) Step {
	return Step{
		Name: name,
		Run: func(context.Context) error {
			*calls = append(*calls, name)
			return err
		},
	}
}

func TestPipeline_RunsStepsInOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	p := NewPipeline(logging.NewNop(),
		recordingStep("a", &calls, nil),
		recordingStep("b", &calls, nil),
		recordingStep("c", &calls, nil),
	)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if got := len(calls); got != 3 || calls[0] != "a" || calls[1] != "b" || calls[2] != "c" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestPipeline_StopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("disk on fire")
	var calls []string
	p := NewPipeline(logging.NewNop(),
		recordingStep("a", &calls, nil),
		recordingStep("b", &calls, stepErr),
		recordingStep("c", &calls, nil),
	)

	err := p.Run(context.Background())
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}
	if !errors.Is(err, stepErr) {
		t.Fatalf("expected wrapped step error, got %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected later steps to be skipped, calls=%v", calls)
	}
}

func TestPipeline_RecoversPanics(t *testing.T) {
	t.Parallel()

	var calls []string
	logs := &bytes.Buffer{}
	p := NewPipeline(logging.NewWriter(logs, logging.LevelDebug),
		Step{Name: "boom", Run: func(context.Context) error { panic("unexpected shape") }},
		recordingStep("after", &calls, nil),
	)

	err := p.Run(context.Background())
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("expected ErrStepFailed, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no steps after panic, calls=%v", calls)
	}
	if !bytes.Contains(logs.Bytes(), []byte("step panicked")) || !bytes.Contains(logs.Bytes(), []byte("unexpected shape")) {
		t.Fatalf("expected panic to be logged, logs=%s", logs.String())
	}
}

func TestPipeline_InterruptBetweenSteps(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls []string
	p := NewPipeline(logging.NewNop(),
		Step{Name: "a", Run: func(context.Context) error {
			calls = append(calls, "a")
			cancel()
			return nil
		}},
		recordingStep("b", &calls, nil),
	)

	err := p.Run(ctx)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if errors.Is(err, ErrStepFailed) {
		t.Fatalf("interrupt must not be reported as a step failure: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected remaining steps to be skipped, calls=%v", calls)
	}
}

func TestPipeline_CancelledStepIsInterrupt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPipeline(logging.NewNop(), Step{Name: "a", Run: func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}})

	if err := p.Run(ctx); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
}

func TestNewFetchStep_StrictMode(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("status 401")
	failed := func(context.Context) FetchResult[match.Match] {
		return emptyFetch[match.Match](FetchStatusFailed, providerErr)
	}
	empty := func(context.Context) FetchResult[match.Match] {
		return emptyFetch[match.Match](FetchStatusEmpty, nil)
	}

	if err := NewFetchStep(StepFetchMatches, failed, false).Run(context.Background()); err != nil {
		t.Fatalf("lenient step should swallow fetch failures: %v", err)
	}
	if err := NewFetchStep(StepFetchMatches, empty, true).Run(context.Background()); err != nil {
		t.Fatalf("strict step should accept an empty board: %v", err)
	}

	err := NewFetchStep(StepFetchMatches, failed, true).Run(context.Background())
	if !errors.Is(err, ErrFetchFailed) || !errors.Is(err, providerErr) {
		t.Fatalf("expected ErrFetchFailed wrapping provider error, got %v", err)
	}
}

func TestNewCombineStep_NeverFails(t *testing.T) {
	t.Parallel()

	called := false
	step := NewCombineStep(StepCombine, func(context.Context) CombineResult {
		called = true
		return skipped(SkipEmptyDataset)
	})

	if err := step.Run(context.Background()); err != nil {
		t.Fatalf("combine step: %v", err)
	}
	if !called {
		t.Fatalf("expected combiner to be invoked")
	}
}
