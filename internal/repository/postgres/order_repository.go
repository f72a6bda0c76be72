package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

// OrderRepository persists weekly order decisions so past submissions can
// be replayed and audited.
type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// SaveDecisions writes all order lines of one run in a single transaction,
// keeping the index row order via the position column.
func (r *OrderRepository) SaveDecisions(ctx context.Context, runID string, lines []domain.OrderLine) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_decisions (run_id, position, store, product, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`)
		if err != nil {
			return fmt.Errorf("prepare order insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC()
		for i, line := range lines {
			if _, err := stmt.ExecContext(ctx, runID, i, line.Key.Store, line.Key.Product, line.Quantity, now); err != nil {
				return fmt.Errorf("insert order line %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetDecisions returns the order lines of a run in index order.
func (r *OrderRepository) GetDecisions(ctx context.Context, runID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT store, product, quantity
		FROM order_decisions
		WHERE run_id = $1
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query order decisions: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.Key.Store, &line.Key.Product, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan order decision: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
