package demand

import (
	"math"
	"testing"

	"github.com/senoni-research/vn2inventory/internal/domain"
)

func TestAggregate_MeanStdCount(t *testing.T) {
	key := domain.Key{Store: "s1", Product: "p1"}
	records := []SalesRecord{
		{Key: key, Week: "2024-01-01", Qty: 10},
		{Key: key, Week: "2024-01-08", Qty: 20},
		{Key: key, Week: "2024-01-15", Qty: 30},
	}

	stats := Aggregate(records)[key]
	if stats.Observations != 3 {
		t.Errorf("observations = %d, want 3", stats.Observations)
	}
	if stats.MeanDemand != 20 {
		t.Errorf("mean = %v, want 20", stats.MeanDemand)
	}
	// sample std with ddof=1: sqrt((100+0+100)/2) = 10
	if math.Abs(stats.StdDemand-10) > 1e-12 {
		t.Errorf("std = %v, want 10", stats.StdDemand)
	}
}

func TestAggregate_SingleObservationStdFallback(t *testing.T) {
	key := domain.Key{Store: "s1", Product: "p1"}
	stats := Aggregate([]SalesRecord{{Key: key, Week: "w1", Qty: 9}})[key]

	if stats.Observations != 1 {
		t.Errorf("observations = %d, want 1", stats.Observations)
	}
	if stats.StdDemand != 3 {
		t.Errorf("std = %v, want sqrt(9) = 3", stats.StdDemand)
	}
}

func TestAggregate_SumsRowsWithinWeek(t *testing.T) {
	key := domain.Key{Store: "s1", Product: "p1"}
	records := []SalesRecord{
		{Key: key, Week: "w1", Qty: 3},
		{Key: key, Week: "w1", Qty: 7},
		{Key: key, Week: "w2", Qty: 20},
	}

	stats := Aggregate(records)[key]
	if stats.Observations != 2 {
		t.Errorf("observations = %d, want 2 weekly buckets", stats.Observations)
	}
	if stats.MeanDemand != 15 {
		t.Errorf("mean = %v, want 15", stats.MeanDemand)
	}
}

func TestAggregate_NoWeekLabelCollapsesToOneObservation(t *testing.T) {
	// Without a date column every row folds into a single weekly sum, so
	// the std falls back to sqrt(mean).
	key := domain.Key{Store: "s1", Product: "p1"}
	records := []SalesRecord{
		{Key: key, Qty: 2},
		{Key: key, Qty: 2},
	}

	stats := Aggregate(records)[key]
	if stats.Observations != 1 {
		t.Errorf("observations = %d, want 1", stats.Observations)
	}
	if stats.MeanDemand != 4 {
		t.Errorf("mean = %v, want 4", stats.MeanDemand)
	}
	if stats.StdDemand != 2 {
		t.Errorf("std = %v, want 2", stats.StdDemand)
	}
}

func TestAggregate_KeysIndependent(t *testing.T) {
	a := domain.Key{Store: "s1", Product: "p1"}
	b := domain.Key{Store: "s2", Product: "p1"}
	records := []SalesRecord{
		{Key: a, Week: "w1", Qty: 5},
		{Key: b, Week: "w1", Qty: 50},
		{Key: a, Week: "w2", Qty: 5},
	}

	stats := Aggregate(records)
	if stats[a].MeanDemand != 5 || stats[a].Observations != 2 {
		t.Errorf("key a stats = %+v", stats[a])
	}
	if stats[b].MeanDemand != 50 || stats[b].Observations != 1 {
		t.Errorf("key b stats = %+v", stats[b])
	}
}

func TestAggregate_NegativeMeanStdFallbackClipped(t *testing.T) {
	// Returns and corrections can push a single observation negative; the
	// sqrt fallback clips at zero instead of going NaN.
	key := domain.Key{Store: "s1", Product: "p1"}
	stats := Aggregate([]SalesRecord{{Key: key, Week: "w1", Qty: -4}})[key]

	if stats.MeanDemand != -4 {
		t.Errorf("mean = %v, want -4", stats.MeanDemand)
	}
	if stats.StdDemand != 0 {
		t.Errorf("std = %v, want 0", stats.StdDemand)
	}
}
