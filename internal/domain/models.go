package domain

// Key identifies one (store, product) pair. Every per-entity table in the
// system is joined on this key.
type Key struct {
	Store   string `json:"store"`
	Product string `json:"product"`
}

// DemandStats holds aggregated weekly demand for one key.
type DemandStats struct {
	MeanDemand   float64 `json:"mean_demand"`
	StdDemand    float64 `json:"std_demand"`
	Observations int     `json:"observations"`
}

// CostParameters are the per-unit costs for one computation call. There is
// no process-wide default; callers pass an explicit value (DefaultCosts for
// the competition setting).
type CostParameters struct {
	ShortageCostPerUnit       float64 `json:"shortage_cost_per_unit"`
	HoldingCostPerUnitPerWeek float64 `json:"holding_cost_per_unit_per_week"`
}

// DefaultCosts returns the competition cost setting.
func DefaultCosts() CostParameters {
	return CostParameters{
		ShortageCostPerUnit:       1.0,
		HoldingCostPerUnitPerWeek: 0.2,
	}
}

// PolicyParameters control the base-stock policy. MinServiceLevel and
// MaxOrderPerItem are optional; nil means unset.
type PolicyParameters struct {
	LeadTimeWeeks     int      `json:"lead_time_weeks"`
	ReviewPeriodWeeks int      `json:"review_period_weeks"`
	MinServiceLevel   *float64 `json:"min_service_level,omitempty"`
	MaxOrderPerItem   *float64 `json:"max_order_per_item,omitempty"`
}

// ProtectionWeeks is the interval during which an order placed now provides
// no replenishment.
func (p PolicyParameters) ProtectionWeeks() int {
	return p.LeadTimeWeeks + p.ReviewPeriodWeeks
}

// InventoryPosition is the current state of one key: units on hand plus the
// sum of all known in-transit quantities.
type InventoryPosition struct {
	OnHand  float64 `json:"on_hand"`
	OnOrder float64 `json:"on_order"`
}

// OrderLine is one row of the order decision output, aligned to the
// canonical index.
type OrderLine struct {
	Key      Key `json:"key"`
	Quantity int `json:"quantity"`
}

// StepMetrics is returned by the simulator after each period.
type StepMetrics struct {
	HoldingCost    float64 `json:"holding_cost"`
	ShortageCost   float64 `json:"shortage_cost"`
	RoundCost      float64 `json:"round_cost"`
	CumulativeCost float64 `json:"cumulative_cost"`
	T              int     `json:"t"`
	Done           bool    `json:"done"`
}

// BacktestResult summarizes one full simulator run.
type BacktestResult struct {
	Name           string        `json:"name,omitempty"`
	Periods        []StepMetrics `json:"periods"`
	TotalHolding   float64       `json:"total_holding"`
	TotalShortage  float64       `json:"total_shortage"`
	CumulativeCost float64       `json:"cumulative_cost"`
}
