package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/operations/price"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachingProvider puts a Redis read-through cache in front of a
// price.Provider. A nil client disables caching.
type CachingProvider struct {
	inner     price.Provider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	logger    *zap.Logger
}

// NewCachingProvider defaults ttl to one minute and namespace to "candles".
func NewCachingProvider(rdb *redis.Client, ttl time.Duration, inner price.Provider, namespace string, logger *zap.Logger) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		logger:    logger,
	}
}

func (c *CachingProvider) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	if c.rdb == nil {
		return c.inner.FetchSeries(ctx, symbol, timeframe, limit)
	}

	key := c.cacheKey(symbol, timeframe, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []models.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		c.logger.Warn("Dropping corrupt cache entry", zap.String("key", key))
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && err != redis.Nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err := c.inner.FetchSeries(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return out, nil
}

func (c *CachingProvider) cacheKey(symbol, timeframe string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d", c.namespace, safe(symbol), safe(timeframe), limit)
}

func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ":", "_")
}
