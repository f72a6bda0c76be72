// Package demand reduces raw weekly sales records into per-key demand
// statistics for the base-stock policy.
package demand

import (
	"math"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

// SalesRecord is one raw sales row. Week is an opaque period label; rows
// sharing a key and week are summed into a single weekly observation. An
// empty Week means the row is already weekly.
type SalesRecord struct {
	Key  domain.Key
	Week string
	Qty  float64
}

type weeklyKey struct {
	key  domain.Key
	week string
}

// Aggregate groups records into weekly demand per key and returns mean,
// sample standard deviation and observation count. With a single
// observation the sample std is undefined and defaults to
// sqrt(max(mean, 0)), a Poisson-style guess.
func Aggregate(records []SalesRecord) map[domain.Key]domain.DemandStats {
	weekly := make(map[weeklyKey]float64)
	order := make(map[domain.Key][]string)
	for _, r := range records {
		wk := weeklyKey{key: r.Key, week: r.Week}
		if _, seen := weekly[wk]; !seen {
			order[r.Key] = append(order[r.Key], r.Week)
		}
		weekly[wk] += r.Qty
	}

	stats := make(map[domain.Key]domain.DemandStats, len(order))
	for key, weeks := range order {
		n := len(weeks)
		sum := 0.0
		for _, w := range weeks {
			sum += weekly[weeklyKey{key: key, week: w}]
		}
		mean := sum / float64(n)

		std := math.Sqrt(math.Max(mean, 0))
		if n > 1 {
			ss := 0.0
			for _, w := range weeks {
				d := weekly[weeklyKey{key: key, week: w}] - mean
				ss += d * d
			}
			std = math.Sqrt(ss / float64(n-1))
		}

		stats[key] = domain.DemandStats{
			MeanDemand:   mean,
			StdDemand:    std,
			Observations: n,
		}
	}
	return stats
}
