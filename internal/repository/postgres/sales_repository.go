package postgres

import (
	"context"
	"fmt"

	"github.com/senoni-research/vn2inventory/internal/demand"
	"github.com/senoni-research/vn2inventory/internal/domain"
)

// SalesRepository serves historical weekly sales from the database as an
// alternative to the CSV path. Rows come back in (store, product, week)
// order so aggregation is deterministic.
type SalesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *SalesRepository {
	return &SalesRepository{db: db}
}

type salesRow struct {
	Store   string  `db:"store"`
	Product string  `db:"product"`
	Week    string  `db:"week"`
	Qty     float64 `db:"qty"`
}

// LoadHistory reads all weekly sales rows.
func (r *SalesRepository) LoadHistory(ctx context.Context) ([]demand.SalesRecord, error) {
	var rows []salesRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT store, product, week, qty
		FROM weekly_sales
		ORDER BY store, product, week`)
	if err != nil {
		return nil, fmt.Errorf("query weekly sales: %w", err)
	}

	records := make([]demand.SalesRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, demand.SalesRecord{
			Key:  domain.Key{Store: row.Store, Product: row.Product},
			Week: row.Week,
			Qty:  row.Qty,
		})
	}
	return records, nil
}

// LoadDemandStats loads history and aggregates it in one call.
func (r *SalesRepository) LoadDemandStats(ctx context.Context) (map[domain.Key]domain.DemandStats, error) {
	records, err := r.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	return demand.Aggregate(records), nil
}
