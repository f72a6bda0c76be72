package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/senoni-research/vn2inventory/internal/config"
	"github.com/senoni-research/vn2inventory/internal/domain"
)

const backtestKeyPrefix = "backtest:result"

// BacktestCache memoizes backtest results keyed by a caller-supplied
// fingerprint of the inputs. The CLI fingerprints input paths plus
// parameters, so editing a file in place can serve a stale hit until the
// TTL expires; the HTTP handler fingerprints the full request body.
type BacktestCache interface {
	Get(ctx context.Context, fingerprint string) (domain.BacktestResult, bool, error)
	Set(ctx context.Context, fingerprint string, result domain.BacktestResult) error
}

type redisBacktestCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopBacktestCache struct{}

// NewBacktestCache returns a Redis-backed cache, or a noop cache when
// caching is disabled.
func NewBacktestCache(cfg config.CacheConfig) (BacktestCache, error) {
	if !cfg.Enabled {
		return &noopBacktestCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &redisBacktestCache{client: client, ttl: ttl}, nil
}

func NewNoopBacktestCache() BacktestCache {
	return &noopBacktestCache{}
}

// Fingerprint hashes the identifying parts of a backtest request into a
// stable cache key component.
func Fingerprint(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *redisBacktestCache) Get(ctx context.Context, fingerprint string) (domain.BacktestResult, bool, error) {
	key := fmt.Sprintf("%s:%s", backtestKeyPrefix, fingerprint)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.BacktestResult{}, false, nil
	}
	if err != nil {
		return domain.BacktestResult{}, false, fmt.Errorf("cache get: %w", err)
	}

	var result domain.BacktestResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.BacktestResult{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return result, true, nil
}

func (c *redisBacktestCache) Set(ctx context.Context, fingerprint string, result domain.BacktestResult) error {
	key := fmt.Sprintf("%s:%s", backtestKeyPrefix, fingerprint)

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *noopBacktestCache) Get(context.Context, string) (domain.BacktestResult, bool, error) {
	return domain.BacktestResult{}, false, nil
}

func (c *noopBacktestCache) Set(context.Context, string, domain.BacktestResult) error {
	return nil
}
