// Package backtest replays the ordering policy against the simulator, one
// decision per period, and reports the accrued costs.
package backtest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/policy"
	"github.com/senoni-research/vn2inventory/internal/sim"
)

// Input bundles everything one run needs.
type Input struct {
	Demand   sim.DemandTable
	Initial  sim.Snapshot
	Stats    map[domain.Key]domain.DemandStats
	Params   domain.PolicyParameters
	Costs    domain.CostParameters
	SimCosts sim.Costs
}

// Run drives the policy and simulator over the full demand sequence. Each
// period the policy sees the simulator's current on-hand and in-transit
// split, orders, and the simulator advances.
func Run(ctx context.Context, in Input) (domain.BacktestResult, error) {
	engine, err := sim.New(in.Demand, in.Initial, in.SimCosts)
	if err != nil {
		return domain.BacktestResult{}, fmt.Errorf("backtest: %w", err)
	}

	periods := engine.Periods()
	result := domain.BacktestResult{
		Periods: make([]domain.StepMetrics, 0, len(periods)),
	}
	for t := 0; t < len(periods); t++ {
		if err := ctx.Err(); err != nil {
			return domain.BacktestResult{}, err
		}

		quantities := policy.ComputeOrders(in.Demand.Index, in.Stats, engine.CurrentState(), in.Params, in.Costs)
		orders := make(map[domain.Key]float64, len(in.Demand.Index))
		for i, k := range in.Demand.Index {
			orders[k] = float64(quantities[i])
		}

		metrics, err := engine.Step(orders)
		if err != nil {
			return domain.BacktestResult{}, fmt.Errorf("backtest: step %d: %w", t, err)
		}
		result.Periods = append(result.Periods, metrics)
		log.Debug().
			Int("t", metrics.T).
			Float64("holding", metrics.HoldingCost).
			Float64("shortage", metrics.ShortageCost).
			Msg("backtest step")
	}

	result.TotalHolding, result.TotalShortage = engine.CumulativeCosts()
	result.CumulativeCost = result.TotalHolding + result.TotalShortage
	return result, nil
}
