// Package analytics records backtest outcomes to Postgres for later
// comparison across parameter sets.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

// BacktestRecorder writes per-period metrics and the run summary.
type BacktestRecorder struct {
	db *sql.DB
}

// Open connects with the pgx stdlib driver.
func Open(dbURL string) (*BacktestRecorder, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &BacktestRecorder{db: db}, nil
}

func NewBacktestRecorder(db *sql.DB) *BacktestRecorder {
	return &BacktestRecorder{db: db}
}

func (r *BacktestRecorder) Close() error {
	return r.db.Close()
}

// Record stores one backtest run.
func (r *BacktestRecorder) Record(ctx context.Context, runID string, result domain.BacktestResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin backtest record: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO backtest_runs (run_id, name, total_holding, total_shortage, cumulative_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, result.Name, result.TotalHolding, result.TotalShortage, result.CumulativeCost, now)
	if err != nil {
		return fmt.Errorf("insert backtest run: %w", err)
	}

	for _, m := range result.Periods {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO backtest_periods (run_id, t, holding_cost, shortage_cost, round_cost, cumulative_cost)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, m.T, m.HoldingCost, m.ShortageCost, m.RoundCost, m.CumulativeCost)
		if err != nil {
			return fmt.Errorf("insert backtest period %d: %w", m.T, err)
		}
	}

	return tx.Commit()
}
