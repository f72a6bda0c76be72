package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/senoni-research/vn2inventory/internal/backtest"
	"github.com/senoni-research/vn2inventory/internal/cache"
	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/service"
	"github.com/senoni-research/vn2inventory/internal/sim"
)

// BacktestRequest carries the full simulation inputs inline. Demand rows
// must be aligned: every row has one value per period.
type BacktestRequest struct {
	Index    []domain.Key            `json:"index" binding:"required"`
	Periods  []string                `json:"periods" binding:"required"`
	Demand   [][]float64             `json:"demand" binding:"required"`
	Snapshot []snapshotRow           `json:"snapshot"`
	Stats    []demandStatsRow        `json:"demand_stats" binding:"required"`
	Params   domain.PolicyParameters `json:"policy"`
	Costs    *domain.CostParameters  `json:"costs"`
}

type snapshotRow struct {
	Key          domain.Key `json:"key"`
	EndInventory float64    `json:"end_inventory"`
	InTransitW1  float64    `json:"in_transit_w1"`
	InTransitW2  float64    `json:"in_transit_w2"`
}

type BacktestHandler struct {
	service *service.BacktestService
}

func NewBacktestHandler(service *service.BacktestService) *BacktestHandler {
	return &BacktestHandler{service: service}
}

// Run handles POST /api/v1/backtest.
func (h *BacktestHandler) Run(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats := make(map[domain.Key]domain.DemandStats, len(req.Stats))
	for _, row := range req.Stats {
		stats[row.Key] = row.Stats
	}
	snapshot := sim.Snapshot{Rows: make(map[domain.Key]sim.SnapshotRow, len(req.Snapshot))}
	for _, row := range req.Snapshot {
		snapshot.Rows[row.Key] = sim.SnapshotRow{
			EndInventory: row.EndInventory,
			InTransitW1:  row.InTransitW1,
			InTransitW2:  row.InTransitW2,
		}
	}

	costs := domain.DefaultCosts()
	if req.Costs != nil {
		costs = *req.Costs
	}

	in := backtest.Input{
		Demand: sim.DemandTable{
			Index:   req.Index,
			Periods: req.Periods,
			Values:  req.Demand,
		},
		Initial: snapshot,
		Stats:   stats,
		Params:  req.Params,
		Costs:   costs,
		SimCosts: sim.Costs{
			HoldingPerUnit:  costs.HoldingCostPerUnitPerWeek,
			ShortagePerUnit: costs.ShortageCostPerUnit,
		},
	}

	body, _ := json.Marshal(req)
	fingerprint := cache.Fingerprint(string(body))

	result, err := h.service.Run(c.Request.Context(), fingerprint, in)
	if err != nil {
		if errors.Is(err, sim.ErrNoDemandPeriods) || errors.Is(err, sim.ErrMisalignedDemand) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
