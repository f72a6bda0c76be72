package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/senoni-research/vn2inventory/internal/config"
	"github.com/senoni-research/vn2inventory/internal/dataio"
	"github.com/senoni-research/vn2inventory/internal/domain"
	"github.com/senoni-research/vn2inventory/internal/policy"
	"github.com/senoni-research/vn2inventory/internal/repository/postgres"
	"github.com/senoni-research/vn2inventory/internal/storage"
	"github.com/senoni-research/vn2inventory/pkg/logger"
)

func newOrderCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "sales", Usage: "Historical weekly sales CSV path (omit to load from --db-url)"},
		&cli.StringFlag{Name: "current", Usage: "Current state CSV path", Required: true},
		&cli.StringFlag{Name: "index", Usage: "Index CSV in the required row order", Required: true},
		&cli.StringFlag{Name: "out", Usage: "Output submission CSV path", Required: true},
		&cli.StringFlag{Name: "config", Usage: "YAML config for column names and policy params"},
		&cli.StringFlag{Name: "submission-col", Usage: "Submission column name"},
		&cli.StringFlag{Name: "run-id", Usage: "Run id for order persistence"},
		&cli.StringFlag{Name: "upload-key", Usage: "Also upload the submission to object storage under this key"},
		&cli.StringFlag{Name: "db-url", Usage: "Persist decisions to this database", EnvVars: []string{"DATABASE_URL"}},
	}
	flags = append(flags, columnFlags()...)
	flags = append(flags, policyFlags()...)

	return &cli.Command{
		Name:   "order",
		Usage:  "Generate the weekly submission CSV following the index ordering",
		Flags:  flags,
		Action: runOrder,
	}
}

func runOrder(c *cli.Context) error {
	pf, err := config.LoadPolicyFile(c.String("config"))
	if err != nil {
		return err
	}
	cols := resolveColumns(c, pf)
	params, costs := resolvePolicy(c, pf)
	submissionCol := resolveSubmissionColumn(c, pf)

	stats, err := loadDemandStats(c, cols)
	if err != nil {
		return err
	}
	state, err := dataio.LoadCurrentState(c.String("current"), cols)
	if err != nil {
		return err
	}
	index, err := dataio.LoadIndex(c.String("index"), cols)
	if err != nil {
		return err
	}

	lines := policy.OrdersForWeek(index, stats, state, params, costs)

	if err := dataio.WriteSubmission(c.String("out"), cols, submissionCol, lines); err != nil {
		return err
	}

	if dbURL := c.String("db-url"); dbURL != "" && c.String("run-id") != "" {
		if err := persistOrders(c, dbURL, lines); err != nil {
			logger.Log.Warn().Err(err).Msg("order decisions not persisted")
		}
	}

	if key := c.String("upload-key"); key != "" {
		if err := uploadSubmission(c, key, c.String("out")); err != nil {
			logger.Log.Warn().Err(err).Str("key", key).Msg("submission not uploaded")
		}
	}

	totalUnits := 0
	for _, line := range lines {
		totalUnits += line.Quantity
	}

	summary, err := json.MarshalIndent(map[string]any{
		"items":               len(lines),
		"total_units":         totalUnits,
		"lead_time_weeks":     params.LeadTimeWeeks,
		"review_period_weeks": params.ReviewPeriodWeeks,
		"submission":          c.String("out"),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(summary))
	return nil
}

// loadDemandStats prefers the sales CSV; without one it falls back to the
// weekly_sales table behind --db-url.
func loadDemandStats(c *cli.Context, cols dataio.Columns) (map[domain.Key]domain.DemandStats, error) {
	if path := c.String("sales"); path != "" {
		return dataio.LoadSalesHistory(path, cols)
	}
	dbURL := c.String("db-url")
	if dbURL == "" {
		return nil, fmt.Errorf("either --sales or --db-url is required")
	}
	db, err := postgres.NewDBFromURL(dbURL)
	if err != nil {
		return nil, err
	}
	return postgres.NewSalesRepository(db).LoadDemandStats(c.Context)
}

func uploadSubmission(c *cli.Context, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	client, err := storage.NewMinioClient(config.Load().Storage)
	if err != nil {
		return err
	}
	return client.UploadObject(c.Context, key, data)
}

func persistOrders(c *cli.Context, dbURL string, lines []domain.OrderLine) error {
	db, err := postgres.NewDBFromURL(dbURL)
	if err != nil {
		return err
	}
	repo := postgres.NewOrderRepository(db)
	return repo.SaveDecisions(c.Context, c.String("run-id"), lines)
}
