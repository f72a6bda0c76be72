package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// PolicyFile is the YAML run configuration: column-name mapping, policy
// numeric parameters and the submission column. CLI flags override any
// value set here.
type PolicyFile struct {
	Columns struct {
		StoreID       string   `mapstructure:"store_id"`
		ProductID     string   `mapstructure:"product_id"`
		SalesQty      string   `mapstructure:"sales_qty"`
		SalesDate     string   `mapstructure:"sales_date"`
		OnHand        string   `mapstructure:"on_hand"`
		InTransitCols []string `mapstructure:"in_transit_cols"`
	} `mapstructure:"columns"`
	Policy struct {
		LeadTimeWeeks             *int     `mapstructure:"lead_time_weeks"`
		ReviewPeriodWeeks         *int     `mapstructure:"review_period_weeks"`
		ShortageCostPerUnit       *float64 `mapstructure:"shortage_cost_per_unit"`
		HoldingCostPerUnitPerWeek *float64 `mapstructure:"holding_cost_per_unit_per_week"`
		MinServiceLevel           *float64 `mapstructure:"min_service_level"`
		MaxOrderPerItem           *float64 `mapstructure:"max_order_per_item"`
	} `mapstructure:"policy"`
	Submission struct {
		ColumnName string `mapstructure:"column_name"`
	} `mapstructure:"submission"`
}

// LoadPolicyFile parses a YAML policy file. A missing path yields the zero
// value so callers can fall back to flags and defaults.
func LoadPolicyFile(path string) (PolicyFile, error) {
	var pf PolicyFile
	if path == "" {
		return pf, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return pf, fmt.Errorf("read policy file %s: %w", path, err)
	}
	if err := v.Unmarshal(&pf); err != nil {
		return pf, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	return pf, nil
}
