package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/senoni-research/vn2inventory/internal/backtest"
	"github.com/senoni-research/vn2inventory/internal/cache"
	"github.com/senoni-research/vn2inventory/internal/domain"
)

// BacktestService runs policy backtests with an optional result cache.
type BacktestService struct {
	cache cache.BacktestCache
}

func NewBacktestService(cacheImpl cache.BacktestCache) *BacktestService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopBacktestCache()
	}
	return &BacktestService{cache: cacheImpl}
}

// Run executes one backtest, serving a cached result when the fingerprint
// matches a prior run.
func (s *BacktestService) Run(ctx context.Context, fingerprint string, in backtest.Input) (domain.BacktestResult, error) {
	if fingerprint != "" {
		if result, ok, err := s.cache.Get(ctx, fingerprint); err == nil && ok {
			return result, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("backtest: cache get failed")
		}
	}

	result, err := backtest.Run(ctx, in)
	if err != nil {
		return domain.BacktestResult{}, err
	}

	if fingerprint != "" {
		if err := s.cache.Set(ctx, fingerprint, result); err != nil {
			log.Warn().Err(err).Msg("backtest: cache set failed")
		}
	}
	return result, nil
}

// Sweep evaluates several parameter sets concurrently.
func (s *BacktestService) Sweep(ctx context.Context, base backtest.Input, specs []backtest.SweepSpec, maxParallel int) ([]domain.BacktestResult, error) {
	return backtest.Sweep(ctx, base, specs, maxParallel)
}
