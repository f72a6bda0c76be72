// Package dataio loads the keyed CSV tables the policy and simulator
// consume, and writes the submission CSV. Column names are mapped through
// an explicit Columns value so input files never dictate the core's schema.
package dataio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/senoni-research/vn2inventory/internal/demand"
	"github.com/senoni-research/vn2inventory/internal/domain"
)

// Columns maps logical fields to CSV column names.
type Columns struct {
	Store     string
	Product   string
	SalesQty  string
	SalesDate string // optional; empty collapses all rows per key
	OnHand    string
	InTransit []string // summed into on_order
}

// DefaultColumns matches the competition file layout.
func DefaultColumns() Columns {
	return Columns{
		Store:    "store",
		Product:  "product",
		SalesQty: "qty",
		OnHand:   "on_hand",
	}
}

type csvTable struct {
	header map[string]int
	rows   [][]string
}

func readTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return &csvTable{header: header, rows: records[1:]}, nil
}

// requireColumns returns a configuration error naming every missing column.
func (t *csvTable) requireColumns(path string, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.header[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns in %s: %s", path, strings.Join(missing, ", "))
	}
	return nil
}

func (t *csvTable) cell(row []string, column string) string {
	idx, ok := t.header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// numeric coerces non-numeric values to 0 per the lenient input policy.
func (t *csvTable) numeric(row []string, column string) float64 {
	v, err := strconv.ParseFloat(t.cell(row, column), 64)
	if err != nil {
		return 0
	}
	return v
}

func (t *csvTable) key(row []string, cols Columns) domain.Key {
	return domain.Key{
		Store:   t.cell(row, cols.Store),
		Product: t.cell(row, cols.Product),
	}
}

// LoadSalesHistory reads weekly sales and aggregates them into per-key
// demand statistics.
func LoadSalesHistory(path string, cols Columns) (map[domain.Key]domain.DemandStats, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.requireColumns(path, cols.Store, cols.Product, cols.SalesQty); err != nil {
		return nil, err
	}

	hasDate := false
	if cols.SalesDate != "" {
		_, hasDate = t.header[cols.SalesDate]
	}

	records := make([]demand.SalesRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := demand.SalesRecord{
			Key: t.key(row, cols),
			Qty: t.numeric(row, cols.SalesQty),
		}
		if hasDate {
			rec.Week = t.cell(row, cols.SalesDate)
		}
		records = append(records, rec)
	}
	return demand.Aggregate(records), nil
}

// LoadCurrentState reads on-hand inventory and sums the configured
// in-transit columns into on_order. Every in-transit column must exist.
func LoadCurrentState(path string, cols Columns) (map[domain.Key]domain.InventoryPosition, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.requireColumns(path, cols.Store, cols.Product, cols.OnHand); err != nil {
		return nil, err
	}
	if err := t.requireColumns(path, cols.InTransit...); err != nil {
		return nil, err
	}

	state := make(map[domain.Key]domain.InventoryPosition, len(t.rows))
	for _, row := range t.rows {
		onOrder := 0.0
		for _, c := range cols.InTransit {
			onOrder += t.numeric(row, c)
		}
		state[t.key(row, cols)] = domain.InventoryPosition{
			OnHand:  t.numeric(row, cols.OnHand),
			OnOrder: onOrder,
		}
	}
	return state, nil
}

// LoadIndex reads the canonical key ordering. Row order is preserved; it
// defines the order of every output.
func LoadIndex(path string, cols Columns) ([]domain.Key, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.requireColumns(path, cols.Store, cols.Product); err != nil {
		return nil, err
	}

	index := make([]domain.Key, 0, len(t.rows))
	for _, row := range t.rows {
		index = append(index, t.key(row, cols))
	}
	return index, nil
}

// WriteSubmission writes the index rows with the order quantities under the
// submission column, preserving index order.
func WriteSubmission(path string, cols Columns, submissionCol string, lines []domain.OrderLine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{cols.Store, cols.Product, submissionCol}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, line := range lines {
		record := []string{line.Key.Store, line.Key.Product, strconv.Itoa(line.Quantity)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
