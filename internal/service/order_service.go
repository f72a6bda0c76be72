package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/policy"
	"github.com/senoni-research/vn2inventory/internal/repository/postgres"
)

// OrderService computes order decisions and optionally journals them.
type OrderService struct {
	repo *postgres.OrderRepository
}

// NewOrderService builds the service; repo may be nil when persistence is
// disabled.
func NewOrderService(repo *postgres.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// ComputeOrders runs the base-stock policy over the canonical index.
func (s *OrderService) ComputeOrders(
	ctx context.Context,
	runID string,
	index []domain.Key,
	stats map[domain.Key]domain.DemandStats,
	state map[domain.Key]domain.InventoryPosition,
	params domain.PolicyParameters,
	costs domain.CostParameters,
) ([]domain.OrderLine, error) {
	lines := policy.OrdersForWeek(index, stats, state, params, costs)

	if s.repo != nil && runID != "" {
		if err := s.repo.SaveDecisions(ctx, runID, lines); err != nil {
			// A failed journal write does not fail the request.
			log.Warn().Err(err).Str("run_id", runID).Msg("order decisions not persisted")
		}
	}
	return lines, nil
}
