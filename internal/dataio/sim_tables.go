package dataio

import (
	"sort"

	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/sim"
)

// Snapshot column names follow the organizer's state files.
const (
	SnapshotEndInventory       = "End Inventory"
	SnapshotInTransitW1        = "In Transit W+1"
	SnapshotInTransitW2        = "In Transit W+2"
	SnapshotCumulativeHolding  = "Cumulative Holding Cost"
	SnapshotCumulativeShortage = "Cumulative Shortage Cost"
)

// LoadDemandWide reads the wide demand table: every column other than the
// key columns is one period, in file order.
func LoadDemandWide(path string, cols Columns) (sim.DemandTable, error) {
	t, err := readTable(path)
	if err != nil {
		return sim.DemandTable{}, err
	}
	if err := t.requireColumns(path, cols.Store, cols.Product); err != nil {
		return sim.DemandTable{}, err
	}

	// Period columns in header order, skipping the key columns.
	periodIdx := make([]int, 0, len(t.header))
	periods := make([]string, 0, len(t.header))
	for name, idx := range t.header {
		if name == cols.Store || name == cols.Product {
			continue
		}
		periodIdx = append(periodIdx, idx)
	}
	// header map iteration is unordered; restore column position order
	sort.Ints(periodIdx)
	byIdx := make(map[int]string, len(t.header))
	for name, idx := range t.header {
		byIdx[idx] = name
	}
	for _, idx := range periodIdx {
		periods = append(periods, byIdx[idx])
	}

	dt := sim.DemandTable{
		Index:   make([]domain.Key, 0, len(t.rows)),
		Periods: periods,
		Values:  make([][]float64, 0, len(t.rows)),
	}
	for _, row := range t.rows {
		dt.Index = append(dt.Index, t.key(row, cols))
		values := make([]float64, len(periods))
		for j, p := range periods {
			values[j] = t.numeric(row, p)
		}
		dt.Values = append(dt.Values, values)
	}
	return dt, nil
}

// LoadSnapshot reads an initial state table. The end-inventory column is
// required; missing in-transit columns default to 0 for every key, and
// missing cumulative cost columns to a population-wide sum of 0.
func LoadSnapshot(path string, cols Columns) (sim.Snapshot, error) {
	t, err := readTable(path)
	if err != nil {
		return sim.Snapshot{}, err
	}
	if err := t.requireColumns(path, cols.Store, cols.Product, SnapshotEndInventory); err != nil {
		return sim.Snapshot{}, err
	}

	snap := sim.Snapshot{Rows: make(map[domain.Key]sim.SnapshotRow, len(t.rows))}
	for _, row := range t.rows {
		snap.Rows[t.key(row, cols)] = sim.SnapshotRow{
			EndInventory: t.numeric(row, SnapshotEndInventory),
			InTransitW1:  t.numeric(row, SnapshotInTransitW1),
			InTransitW2:  t.numeric(row, SnapshotInTransitW2),
		}
		snap.CumulativeHolding += t.numeric(row, SnapshotCumulativeHolding)
		snap.CumulativeShortage += t.numeric(row, SnapshotCumulativeShortage)
	}
	return snap, nil
}
