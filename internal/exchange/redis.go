package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/splitty/internal/metrics"
)

const keyPrefix = "splitty:rates:"

// RedisCache wraps a Source with a read-through cache in redis.
// Redis failures are logged and the underlying source is used instead.
type RedisCache struct {
	rdb     redis.UniversalClient
	source  Source
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedisCache creates a cache in front of source. m may be nil.
func NewRedisCache(rdb redis.UniversalClient, source Source, ttl time.Duration, m *metrics.Metrics) *RedisCache {
	return &RedisCache{rdb: rdb, source: source, ttl: ttl, metrics: m}
}

func (c *RedisCache) Rates(ctx context.Context, date time.Time) (*Rates, error) {
	key := keyPrefix + date.Format(DateLayout)

	val, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rates Rates
		if err := json.Unmarshal(val, &rates); err == nil {
			c.metrics.RatesLookup("hit")
			return &rates, nil
		}
		slog.Warn("Discarding undecodable cached rates", "key", key)
		c.metrics.RatesLookup("miss")
	case errors.Is(err, redis.Nil):
		c.metrics.RatesLookup("miss")
	default:
		slog.Warn("Rates cache unavailable", "key", key, "error", err)
		c.metrics.RatesLookup("error")
	}

	rates, err := c.source.Rates(ctx, date)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rates)
	if err != nil {
		return rates, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("Failed to cache rates", "key", key, "error", err)
	}
	return rates, nil
}
