package backtest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

// SweepSpec is one parameter set to evaluate.
type SweepSpec struct {
	Name   string
	Params domain.PolicyParameters
}

// Sweep evaluates several parameter sets concurrently, one simulator
// instance per set. Engines share no state, so the only coordination is the
// errgroup itself. maxParallel <= 0 means no limit.
func Sweep(ctx context.Context, base Input, specs []SweepSpec, maxParallel int) ([]domain.BacktestResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	if maxParallel > 0 {
		g.SetLimit(maxParallel)
	}

	results := make([]domain.BacktestResult, len(specs))
	for i, spec := range specs {
		g.Go(func() error {
			in := base
			in.Params = spec.Params
			result, err := Run(ctx, in)
			if err != nil {
				return err
			}
			result.Name = spec.Name
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
