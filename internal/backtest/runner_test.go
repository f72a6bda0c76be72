package backtest

import (
	"context"
	"testing"

	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/sim"
)

func fixtureInput() Input {
	key := domain.Key{Store: "s1", Product: "p1"}
	costs := domain.DefaultCosts()
	return Input{
		Demand: sim.DemandTable{
			Index:   []domain.Key{key},
			Periods: []string{"w1", "w2", "w3", "w4"},
			Values:  [][]float64{{10, 10, 10, 10}},
		},
		Initial: sim.Snapshot{Rows: map[domain.Key]sim.SnapshotRow{
			key: {EndInventory: 20},
		}},
		Stats: map[domain.Key]domain.DemandStats{
			key: {MeanDemand: 10, StdDemand: 0, Observations: 8},
		},
		Params: domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1},
		Costs:  costs,
		SimCosts: sim.Costs{
			HoldingPerUnit:  costs.HoldingCostPerUnitPerWeek,
			ShortagePerUnit: costs.ShortageCostPerUnit,
		},
	}
}

func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()

	first, err := Run(ctx, fixtureInput())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(ctx, fixtureInput())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Periods) != 4 {
		t.Fatalf("got %d period records, want 4", len(first.Periods))
	}
	if first.CumulativeCost != second.CumulativeCost {
		t.Errorf("runs differ: %v vs %v", first.CumulativeCost, second.CumulativeCost)
	}
	for i := range first.Periods {
		if first.Periods[i] != second.Periods[i] {
			t.Errorf("period %d differs: %+v vs %+v", i, first.Periods[i], second.Periods[i])
		}
	}
}

func TestRun_TotalsMatchPeriodSums(t *testing.T) {
	result, err := Run(context.Background(), fixtureInput())
	if err != nil {
		t.Fatal(err)
	}

	sumHolding, sumShortage := 0.0, 0.0
	for _, m := range result.Periods {
		sumHolding += m.HoldingCost
		sumShortage += m.ShortageCost
	}
	if result.TotalHolding != sumHolding {
		t.Errorf("total holding = %v, want %v", result.TotalHolding, sumHolding)
	}
	if result.TotalShortage != sumShortage {
		t.Errorf("total shortage = %v, want %v", result.TotalShortage, sumShortage)
	}
	if result.CumulativeCost != sumHolding+sumShortage {
		t.Errorf("cumulative = %v, want %v", result.CumulativeCost, sumHolding+sumShortage)
	}
	if last := result.Periods[len(result.Periods)-1]; !last.Done {
		t.Errorf("last period not marked done: %+v", last)
	}
}

func TestRun_EmptyDemandFails(t *testing.T) {
	in := fixtureInput()
	in.Demand.Periods = nil
	in.Demand.Values = [][]float64{{}}

	if _, err := Run(context.Background(), in); err == nil {
		t.Fatal("expected construction error for empty demand sequence")
	}
}

func TestSweep_OneResultPerSpec(t *testing.T) {
	base := fixtureInput()
	specs := []SweepSpec{
		{Name: "lead=0", Params: domain.PolicyParameters{LeadTimeWeeks: 0, ReviewPeriodWeeks: 1}},
		{Name: "lead=1", Params: domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}},
		{Name: "lead=2", Params: domain.PolicyParameters{LeadTimeWeeks: 2, ReviewPeriodWeeks: 1}},
	}

	results, err := Sweep(context.Background(), base, specs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}
	for i, result := range results {
		if result.Name != specs[i].Name {
			t.Errorf("result %d named %q, want %q (order must follow specs)", i, result.Name, specs[i].Name)
		}
		if len(result.Periods) != 4 {
			t.Errorf("result %d has %d periods, want 4", i, len(result.Periods))
		}
	}
}

func TestSweep_MatchesSequentialRuns(t *testing.T) {
	base := fixtureInput()
	specs := []SweepSpec{
		{Name: "a", Params: domain.PolicyParameters{LeadTimeWeeks: 1, ReviewPeriodWeeks: 1}},
		{Name: "b", Params: domain.PolicyParameters{LeadTimeWeeks: 3, ReviewPeriodWeeks: 1}},
	}

	swept, err := Sweep(context.Background(), base, specs, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i, spec := range specs {
		in := fixtureInput()
		in.Params = spec.Params
		sequential, err := Run(context.Background(), in)
		if err != nil {
			t.Fatal(err)
		}
		if swept[i].CumulativeCost != sequential.CumulativeCost {
			t.Errorf("spec %q: swept %v != sequential %v", spec.Name, swept[i].CumulativeCost, sequential.CumulativeCost)
		}
	}
}
