package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/service"
)

// OrderRequest carries the tables the policy needs, already keyed. Stats
// and state rows missing relative to the index are treated as zero.
type OrderRequest struct {
	RunID  string                  `json:"run_id"`
	Index  []domain.Key            `json:"index" binding:"required"`
	Stats  []demandStatsRow        `json:"demand_stats" binding:"required"`
	State  []inventoryPositionRow  `json:"current_state"`
	Params domain.PolicyParameters `json:"policy"`
	Costs  *domain.CostParameters  `json:"costs"`
}

type demandStatsRow struct {
	Key   domain.Key         `json:"key"`
	Stats domain.DemandStats `json:"stats"`
}

type inventoryPositionRow struct {
	Key      domain.Key               `json:"key"`
	Position domain.InventoryPosition `json:"position"`
}

type OrderResponse struct {
	Items      int                `json:"items"`
	TotalUnits int                `json:"total_units"`
	Orders     []domain.OrderLine `json:"orders"`
}

type OrderHandler struct {
	service *service.OrderService
}

func NewOrderHandler(service *service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ComputeOrders handles POST /api/v1/orders.
func (h *OrderHandler) ComputeOrders(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats := make(map[domain.Key]domain.DemandStats, len(req.Stats))
	for _, row := range req.Stats {
		stats[row.Key] = row.Stats
	}
	state := make(map[domain.Key]domain.InventoryPosition, len(req.State))
	for _, row := range req.State {
		state[row.Key] = row.Position
	}

	costs := domain.DefaultCosts()
	if req.Costs != nil {
		costs = *req.Costs
	}

	lines, err := h.service.ComputeOrders(c.Request.Context(), req.RunID, req.Index, stats, state, req.Params, costs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	c.JSON(http.StatusOK, OrderResponse{
		Items:      len(lines),
		TotalUnits: total,
		Orders:     lines,
	})
}
