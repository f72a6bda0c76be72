// Package table provides the alignment helpers that every arithmetic
// combination of two per-key collections goes through. Values are carried as
// slices ordered by a canonical index of keys; map-backed inputs are
// reindexed with an explicit fill for missing keys.
package table

import "github.com/senoni-research/vn2inventory/internal/domain"

// Align reindexes a map-backed series to the canonical key order, filling
// missing keys with fill.
func Align(index []domain.Key, series map[domain.Key]float64, fill float64) []float64 {
	out := make([]float64, len(index))
	for i, k := range index {
		v, ok := series[k]
		if !ok {
			v = fill
		}
		out[i] = v
	}
	return out
}

// AlignPositions reindexes inventory positions to the canonical key order.
// Missing keys get a zero position.
func AlignPositions(index []domain.Key, state map[domain.Key]domain.InventoryPosition) []domain.InventoryPosition {
	out := make([]domain.InventoryPosition, len(index))
	for i, k := range index {
		out[i] = state[k]
	}
	return out
}

// ClipNonNegative replaces negative entries with 0, in place, and returns
// the slice.
func ClipNonNegative(values []float64) []float64 {
	for i, v := range values {
		if v < 0 {
			values[i] = 0
		}
	}
	return values
}

// Sum adds values in index order. Accumulation order is fixed so repeated
// runs produce identical floating-point results.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
