package main

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/senoni-research/vn2inventory/internal/config"
	"github.com/senoni-research/vn2inventory/internal/dataio"
	"github.com/senoni-research/vn2inventory/internal/domain"
)

// Shared flag builders. Precedence everywhere: explicit flag > YAML policy
// file > built-in default.

func columnFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "store-col", Usage: "Store id column name"},
		&cli.StringFlag{Name: "product-col", Usage: "Product id column name"},
		&cli.StringFlag{Name: "sales-qty-col", Usage: "Sales quantity column name"},
		&cli.StringFlag{Name: "sales-date-col", Usage: "Sales week/date column name"},
		&cli.StringFlag{Name: "on-hand-col", Usage: "On-hand column name"},
		&cli.StringFlag{Name: "in-transit-cols", Usage: "Comma-separated in-transit column names"},
	}
}

func policyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "lead", Usage: "Lead time in weeks", Value: 2},
		&cli.IntFlag{Name: "review", Usage: "Review period in weeks", Value: 1},
		&cli.Float64Flag{Name: "shortage-cost", Usage: "Shortage cost per unit", Value: 1.0},
		&cli.Float64Flag{Name: "holding-cost", Usage: "Holding cost per unit per week", Value: 0.2},
		&cli.Float64Flag{Name: "min-service", Usage: "Minimum service level in (0,1)"},
		&cli.Float64Flag{Name: "max-order", Usage: "Upper cap on order quantity per item"},
	}
}

func resolveColumns(c *cli.Context, pf config.PolicyFile) dataio.Columns {
	cols := dataio.DefaultColumns()
	if pf.Columns.StoreID != "" {
		cols.Store = pf.Columns.StoreID
	}
	if pf.Columns.ProductID != "" {
		cols.Product = pf.Columns.ProductID
	}
	if pf.Columns.SalesQty != "" {
		cols.SalesQty = pf.Columns.SalesQty
	}
	if pf.Columns.SalesDate != "" {
		cols.SalesDate = pf.Columns.SalesDate
	}
	if pf.Columns.OnHand != "" {
		cols.OnHand = pf.Columns.OnHand
	}
	if len(pf.Columns.InTransitCols) > 0 {
		cols.InTransit = pf.Columns.InTransitCols
	}

	if v := c.String("store-col"); v != "" {
		cols.Store = v
	}
	if v := c.String("product-col"); v != "" {
		cols.Product = v
	}
	if v := c.String("sales-qty-col"); v != "" {
		cols.SalesQty = v
	}
	if v := c.String("sales-date-col"); v != "" {
		cols.SalesDate = v
	}
	if v := c.String("on-hand-col"); v != "" {
		cols.OnHand = v
	}
	if v := c.String("in-transit-cols"); v != "" {
		cols.InTransit = splitColumns(v)
	}
	return cols
}

func resolvePolicy(c *cli.Context, pf config.PolicyFile) (domain.PolicyParameters, domain.CostParameters) {
	params := domain.PolicyParameters{
		LeadTimeWeeks:     2,
		ReviewPeriodWeeks: 1,
	}
	costs := domain.DefaultCosts()

	if pf.Policy.LeadTimeWeeks != nil {
		params.LeadTimeWeeks = *pf.Policy.LeadTimeWeeks
	}
	if pf.Policy.ReviewPeriodWeeks != nil {
		params.ReviewPeriodWeeks = *pf.Policy.ReviewPeriodWeeks
	}
	if pf.Policy.ShortageCostPerUnit != nil {
		costs.ShortageCostPerUnit = *pf.Policy.ShortageCostPerUnit
	}
	if pf.Policy.HoldingCostPerUnitPerWeek != nil {
		costs.HoldingCostPerUnitPerWeek = *pf.Policy.HoldingCostPerUnitPerWeek
	}
	params.MinServiceLevel = pf.Policy.MinServiceLevel
	params.MaxOrderPerItem = pf.Policy.MaxOrderPerItem

	if c.IsSet("lead") {
		params.LeadTimeWeeks = c.Int("lead")
	}
	if c.IsSet("review") {
		params.ReviewPeriodWeeks = c.Int("review")
	}
	if c.IsSet("shortage-cost") {
		costs.ShortageCostPerUnit = c.Float64("shortage-cost")
	}
	if c.IsSet("holding-cost") {
		costs.HoldingCostPerUnitPerWeek = c.Float64("holding-cost")
	}
	if c.IsSet("min-service") {
		v := c.Float64("min-service")
		params.MinServiceLevel = &v
	}
	if c.IsSet("max-order") {
		v := c.Float64("max-order")
		params.MaxOrderPerItem = &v
	}
	return params, costs
}

func resolveSubmissionColumn(c *cli.Context, pf config.PolicyFile) string {
	if c.IsSet("submission-col") {
		return c.String("submission-col")
	}
	if pf.Submission.ColumnName != "" {
		return pf.Submission.ColumnName
	}
	return "order_qty"
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}
