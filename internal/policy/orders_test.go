package policy

import (
	"testing"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

func singleKeyInputs(base float64, onHand, onOrder float64) (
	[]domain.Key,
	map[domain.Key]domain.DemandStats,
	map[domain.Key]domain.InventoryPosition,
) {
	key := domain.Key{Store: "s1", Product: "p1"}
	// protection=2 with mean base/2 and no variance => base stock = base
	stats := map[domain.Key]domain.DemandStats{
		key: {MeanDemand: base / 2, StdDemand: 0, Observations: 5},
	}
	state := map[domain.Key]domain.InventoryPosition{
		key: {OnHand: onHand, OnOrder: onOrder},
	}
	return []domain.Key{key}, stats, state
}

func TestComputeOrders_Scenario(t *testing.T) {
	// base stock 20, on hand 5 => order 15
	index, stats, state := singleKeyInputs(20, 5, 0)
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	costs := domain.CostParameters{ShortageCostPerUnit: 1, HoldingCostPerUnitPerWeek: 0.2}

	orders := ComputeOrders(index, stats, state, params, costs)
	if orders[0] != 15 {
		t.Errorf("order = %d, want 15", orders[0])
	}
}

func TestComputeOrders_NeverNegative(t *testing.T) {
	index, stats, state := singleKeyInputs(10, 50, 50)
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}

	orders := ComputeOrders(index, stats, state, params, domain.DefaultCosts())
	if orders[0] != 0 {
		t.Errorf("order = %d, want 0 when position exceeds base stock", orders[0])
	}
}

func TestComputeOrders_Cap(t *testing.T) {
	index, stats, state := singleKeyInputs(20, 0, 0)
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	cap := 7.0
	params.MaxOrderPerItem = &cap

	orders := ComputeOrders(index, stats, state, params, domain.DefaultCosts())
	if orders[0] != 7 {
		t.Errorf("order = %d, want 7 with cap", orders[0])
	}
}

func TestComputeOrders_HalfToEvenRounding(t *testing.T) {
	// Drive raw to an exact x.5 via the cap: raw = min(base-0, cap).
	tests := []struct {
		cap  float64
		want int
	}{
		{2.5, 2},
		{3.5, 4},
		{0.5, 0},
		{1.5, 2},
	}
	for _, tt := range tests {
		index, stats, state := singleKeyInputs(100, 0, 0)
		params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
		cap := tt.cap
		params.MaxOrderPerItem = &cap

		orders := ComputeOrders(index, stats, state, params, domain.DefaultCosts())
		if orders[0] != tt.want {
			t.Errorf("raw %v rounds to %d, want %d", tt.cap, orders[0], tt.want)
		}
	}
}

func TestComputeOrders_AlignmentFillsMissing(t *testing.T) {
	known := domain.Key{Store: "s1", Product: "p1"}
	unknown := domain.Key{Store: "s1", Product: "p2"}
	index := []domain.Key{known, unknown}

	stats := map[domain.Key]domain.DemandStats{
		known: {MeanDemand: 10, StdDemand: 0, Observations: 5},
	}
	state := map[domain.Key]domain.InventoryPosition{
		known: {OnHand: 5},
	}
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	costs := domain.CostParameters{ShortageCostPerUnit: 1, HoldingCostPerUnitPerWeek: 0.2}

	orders := ComputeOrders(index, stats, state, params, costs)
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want one per index row", len(orders))
	}
	if orders[0] != 15 {
		t.Errorf("known key order = %d, want 15", orders[0])
	}
	if orders[1] != 0 {
		t.Errorf("missing key order = %d, want 0", orders[1])
	}
}

func TestComputeOrders_NegativeStateClipped(t *testing.T) {
	index, stats, state := singleKeyInputs(20, -5, -3)
	key := index[0]
	state[key] = domain.InventoryPosition{OnHand: -5, OnOrder: -3}
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}
	costs := domain.CostParameters{ShortageCostPerUnit: 1, HoldingCostPerUnitPerWeek: 0.2}

	orders := ComputeOrders(index, stats, state, params, costs)
	if orders[0] != 20 {
		t.Errorf("order = %d, want 20 with negative state clipped to zero", orders[0])
	}
}

func TestOrdersForWeek_PreservesIndexOrder(t *testing.T) {
	a := domain.Key{Store: "s2", Product: "p9"}
	b := domain.Key{Store: "s1", Product: "p1"}
	index := []domain.Key{a, b}

	stats := map[domain.Key]domain.DemandStats{
		a: {MeanDemand: 1, StdDemand: 0, Observations: 2},
		b: {MeanDemand: 2, StdDemand: 0, Observations: 2},
	}
	state := map[domain.Key]domain.InventoryPosition{}
	params := domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}

	lines := OrdersForWeek(index, stats, state, params, domain.DefaultCosts())
	if lines[0].Key != a || lines[1].Key != b {
		t.Errorf("lines out of index order: %+v", lines)
	}
	if lines[0].Quantity != 2 || lines[1].Quantity != 4 {
		t.Errorf("quantities = %d,%d, want 2,4", lines[0].Quantity, lines[1].Quantity)
	}
}
