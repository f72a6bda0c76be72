package policy

import (
	"math"
	"testing"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

func TestServiceLevel_CostRatio(t *testing.T) {
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	costs := domain.CostParameters{ShortageCostPerUnit: 1, HoldingCostPerUnitPerWeek: 0.2}

	// protection=2 => co = 0.2*2/2 = 0.2 => level = 1/1.2
	got := ServiceLevel(params, costs)
	want := 1.0 / 1.2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ServiceLevel = %v, want %v", got, want)
	}
}

func TestServiceLevel_MinFloorAndClamp(t *testing.T) {
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	costs := domain.CostParameters{ShortageCostPerUnit: 1, HoldingCostPerUnitPerWeek: 0.2}

	min := 0.99
	params.MinServiceLevel = &min
	if got := ServiceLevel(params, costs); got != 0.99 {
		t.Errorf("ServiceLevel with floor = %v, want 0.99", got)
	}

	// A floor above the clamp is pulled back inside the open interval.
	min = 1.0
	if got := ServiceLevel(params, costs); got != 1-1e-6 {
		t.Errorf("ServiceLevel clamped = %v, want %v", got, 1-1e-6)
	}

	// Zero protection window: overage cost floored at 1e-12, level near 1
	// but still finite after clamping.
	zeroP := domain.PolicyParameters{}
	got := ServiceLevel(zeroP, costs)
	if got != 1-1e-6 {
		t.Errorf("ServiceLevel zero protection = %v, want %v", got, 1-1e-6)
	}
	if z := NormalQuantile(got); math.IsInf(z, 0) {
		t.Errorf("quantile of clamped level is infinite")
	}
}

func TestBaseStockLevels_Scenario(t *testing.T) {
	// mean=10, std=0, lead=1, review=1, cu=1, h=0.2:
	// level = 1/1.2, z ~ 0.967, window mean = 20, safety = 0.
	key := domain.Key{Store: "s1", Product: "p1"}
	stats := map[domain.Key]domain.DemandStats{
		key: {MeanDemand: 10, StdDemand: 0, Observations: 5},
	}
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	costs := domain.CostParameters{ShortageCostPerUnit: 1, HoldingCostPerUnitPerWeek: 0.2}

	levels := BaseStockLevels(stats, params, costs)
	if got := levels[key]; math.Abs(got-20) > 1e-12 {
		t.Errorf("base stock = %v, want 20", got)
	}
}

func TestBaseStockLevels_Monotonic(t *testing.T) {
	key := domain.Key{Store: "s1", Product: "p1"}
	params := domain.PolicyParameters{LeadTimeWeeks: 2, ReviewPeriodWeeks: 1}
	costs := domain.DefaultCosts()

	level := func(mean, std float64) float64 {
		stats := map[domain.Key]domain.DemandStats{
			key: {MeanDemand: mean, StdDemand: std, Observations: 10},
		}
		return BaseStockLevels(stats, params, costs)[key]
	}

	prev := level(0, 5)
	for mean := 1.0; mean <= 50; mean++ {
		cur := level(mean, 5)
		if cur < prev {
			t.Fatalf("base stock decreased in mean at %v: %v < %v", mean, cur, prev)
		}
		prev = cur
	}

	prev = level(10, 0)
	for std := 1.0; std <= 50; std++ {
		cur := level(10, std)
		if cur < prev {
			t.Fatalf("base stock decreased in std at %v: %v < %v", std, cur, prev)
		}
		prev = cur
	}
}

func TestBaseStockLevels_ZeroProtectionZeroMean(t *testing.T) {
	key := domain.Key{Store: "s1", Product: "p1"}
	stats := map[domain.Key]domain.DemandStats{
		key: {MeanDemand: 0, StdDemand: 3, Observations: 4},
	}
	levels := BaseStockLevels(stats, domain.PolicyParameters{}, domain.DefaultCosts())
	if got := levels[key]; got != 0 {
		t.Errorf("base stock = %v, want 0 for zero protection and zero mean", got)
	}
}

func TestBaseStockLevels_NegativeStatsClipped(t *testing.T) {
	key := domain.Key{Store: "s1", Product: "p1"}
	stats := map[domain.Key]domain.DemandStats{
		key: {MeanDemand: -4, StdDemand: -2, Observations: 3},
	}
	params := domain.PolicyParameters{LeadTimeWeeks: 2, ReviewPeriodWeeks: 1}
	levels := BaseStockLevels(stats, params, domain.DefaultCosts())
	if got := levels[key]; got != 0 {
		t.Errorf("base stock = %v, want 0 when stats are negative", got)
	}
}
