package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/senoni-research/vn2inventory/internal/analytics"
	"github.com/senoni-research/vn2inventory/internal/backtest"
	"github.com/senoni-research/vn2inventory/internal/cache"
	"github.com/senoni-research/vn2inventory/internal/config"
	"github.com/senoni-research/vn2inventory/internal/dataio"
	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/service"
	"github.com/senoni-research/vn2inventory/internal/sim"
	"github.com/senoni-research/vn2inventory/pkg/logger"
)

func newBacktestCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "demand", Usage: "Wide demand CSV (one column per week)", Required: true},
		&cli.StringFlag{Name: "snapshot", Usage: "Initial state CSV path", Required: true},
		&cli.StringFlag{Name: "sales", Usage: "Historical weekly sales CSV path", Required: true},
		&cli.StringFlag{Name: "config", Usage: "YAML config for column names and policy params"},
		&cli.StringFlag{Name: "sweep-lead", Usage: "Comma-separated lead times to sweep instead of a single run"},
		&cli.IntFlag{Name: "parallel", Usage: "Max concurrent sweep runs (0 = unlimited)"},
		&cli.StringFlag{Name: "db-url", Usage: "Record results to this database", EnvVars: []string{"DATABASE_URL"}},
	}
	flags = append(flags, columnFlags()...)
	flags = append(flags, policyFlags()...)

	return &cli.Command{
		Name:   "backtest",
		Usage:  "Replay the policy against the simulator over realized demand",
		Flags:  flags,
		Action: runBacktest,
	}
}

func runBacktest(c *cli.Context) error {
	pf, err := config.LoadPolicyFile(c.String("config"))
	if err != nil {
		return err
	}
	cols := resolveColumns(c, pf)
	params, costs := resolvePolicy(c, pf)

	demandTable, err := dataio.LoadDemandWide(c.String("demand"), cols)
	if err != nil {
		return err
	}
	snapshot, err := dataio.LoadSnapshot(c.String("snapshot"), cols)
	if err != nil {
		return err
	}
	stats, err := dataio.LoadSalesHistory(c.String("sales"), cols)
	if err != nil {
		return err
	}

	in := backtest.Input{
		Demand:  demandTable,
		Initial: snapshot,
		Stats:   stats,
		Params:  params,
		Costs:   costs,
		SimCosts: sim.Costs{
			HoldingPerUnit:  costs.HoldingCostPerUnitPerWeek,
			ShortagePerUnit: costs.ShortageCostPerUnit,
		},
	}

	var results []domain.BacktestResult
	if sweep := c.String("sweep-lead"); sweep != "" {
		specs, err := leadSweepSpecs(sweep, params)
		if err != nil {
			return err
		}
		results, err = backtest.Sweep(c.Context, in, specs, c.Int("parallel"))
		if err != nil {
			return err
		}
	} else {
		svc := service.NewBacktestService(newCLIBacktestCache())
		paramsJSON, _ := json.Marshal(params)
		costsJSON, _ := json.Marshal(costs)
		fingerprint := cache.Fingerprint(
			c.String("demand"), c.String("snapshot"), c.String("sales"),
			string(paramsJSON), string(costsJSON),
		)
		result, err := svc.Run(c.Context, fingerprint, in)
		if err != nil {
			return err
		}
		results = []domain.BacktestResult{result}
	}

	if dbURL := c.String("db-url"); dbURL != "" {
		if err := recordResults(c, dbURL, results); err != nil {
			logger.Log.Warn().Err(err).Msg("backtest results not recorded")
		}
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

// newCLIBacktestCache wires the Redis cache when enabled in the
// environment, falling back to a noop cache.
func newCLIBacktestCache() cache.BacktestCache {
	cfg := config.Load()
	impl, err := cache.NewBacktestCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, running without it")
		return cache.NewNoopBacktestCache()
	}
	return impl
}

func leadSweepSpecs(raw string, base domain.PolicyParameters) ([]backtest.SweepSpec, error) {
	parts := strings.Split(raw, ",")
	specs := make([]backtest.SweepSpec, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lead, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid lead time %q: %w", p, err)
		}
		params := base
		params.LeadTimeWeeks = lead
		specs = append(specs, backtest.SweepSpec{
			Name:   fmt.Sprintf("lead=%d", lead),
			Params: params,
		})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("sweep-lead has no values")
	}
	return specs, nil
}

func recordResults(c *cli.Context, dbURL string, results []domain.BacktestResult) error {
	recorder, err := analytics.Open(dbURL)
	if err != nil {
		return err
	}
	defer recorder.Close()

	for _, result := range results {
		if err := recorder.Record(c.Context, uuid.NewString(), result); err != nil {
			return err
		}
	}
	return nil
}
