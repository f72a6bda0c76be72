package policy

import (
	"math"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

const (
	// Floors keeping the critical ratio away from division by zero and the
	// quantile away from the 0/1 boundaries.
	minShortageCost = 1e-9
	minOverageCost  = 1e-12
	serviceLevelEps = 1e-6
)

// ServiceLevel derives the target in-stock probability from the cost ratio.
// The effective overage cost charges holding over the protection interval at
// half weight: under sawtooth consumption a unit is held P/2 weeks on
// average.
func ServiceLevel(params domain.PolicyParameters, costs domain.CostParameters) float64 {
	protection := params.ProtectionWeeks()
	coEffective := costs.HoldingCostPerUnitPerWeek * math.Max(float64(protection), 0) / 2.0
	cu := math.Max(costs.ShortageCostPerUnit, minShortageCost)
	co := math.Max(coEffective, minOverageCost)

	level := cu / (cu + co)
	if params.MinServiceLevel != nil {
		level = math.Max(level, *params.MinServiceLevel)
	}
	return math.Min(math.Max(level, serviceLevelEps), 1-serviceLevelEps)
}

// BaseStockLevels computes the target inventory level S for each key with
// demand statistics. Keys without stats are simply absent from the result;
// alignment to the canonical index happens in ComputeOrders.
func BaseStockLevels(
	stats map[domain.Key]domain.DemandStats,
	params domain.PolicyParameters,
	costs domain.CostParameters,
) map[domain.Key]float64 {
	protection := float64(params.ProtectionWeeks())
	z := NormalQuantile(ServiceLevel(params, costs))
	sqrtP := math.Sqrt(protection)

	levels := make(map[domain.Key]float64, len(stats))
	for key, st := range stats {
		meanP := math.Max(st.MeanDemand, 0) * protection
		stdP := math.Max(st.StdDemand, 0) * sqrtP
		levels[key] = math.Max(meanP+z*stdP, 0)
	}
	return levels
}
