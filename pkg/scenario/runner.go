package scenario

import (
	"context"
	"fmt"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/domain"
)

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	onStep func(index int, step Step)
}

// WithStepHook is called before each step is applied. index is 0-based.
func WithStepHook(fn func(index int, step Step)) RunOption {
	return func(c *runConfig) {
		c.onStep = fn
	}
}

// Run applies steps to eng in order and returns the final aggregate state.
//
// ctx is checked between steps only: a single step always runs its cascade to
// completion. The first failing step stops the run; earlier changes are kept.
func Run(ctx context.Context, eng *cascade.Engine, steps []Step, opts ...RunOption) (domain.Snapshot, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return eng.Snapshot(), err
		}
		if cfg.onStep != nil {
			cfg.onStep(i, step)
		}
		if err := eng.ApplyByName(step.Entity, step.State); err != nil {
			return eng.Snapshot(), fmt.Errorf("step %d (%s -> %s): %w", i+1, step.Entity, step.State.String(), err)
		}
	}
	return eng.Snapshot(), nil
}

// Simulate builds s with engine options and runs its own steps.
func (s *Scenario) Simulate(ctx context.Context, engOpts []cascade.Option, runOpts ...RunOption) (*cascade.Engine, domain.Snapshot, error) {
	eng, err := s.Build(engOpts...)
	if err != nil {
		return nil, nil, err
	}
	snap, err := Run(ctx, eng, s.Steps, runOpts...)
	return eng, snap, err
}
