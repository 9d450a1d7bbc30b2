package cli

import (
	"context"
	"fmt"
	"time"

	"CryptoReportBot/config"
	"CryptoReportBot/internal/operations/binance"
	"CryptoReportBot/internal/operations/cache"
	"CryptoReportBot/internal/operations/price"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newLiveProvider(cfg config.ExchangeConfig, logger *zap.Logger) *price.BinanceProvider {
	client := binance.NewBinanceClient(cfg.APIKey, cfg.SecretKey, cfg.RequestsPerSecond, cfg.Burst)
	if cfg.BaseURL != "" {
		client.WithBaseURL(cfg.BaseURL)
	}
	return price.NewBinanceProvider(client, logger)
}

// withCache wraps inner in the Redis cache when an address is configured.
// An unreachable Redis disables the cache instead of failing startup.
func withCache(ctx context.Context, cfg config.RedisConfig, inner price.Provider, logger *zap.Logger) (price.Provider, func()) {
	if cfg.Addr == "" {
		return inner, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, candle cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rdb.Close()
		return cache.NewCachingProvider(nil, cfg.TTL, inner, "", logger), func() {}
	}

	logger.Info("Candle cache enabled", zap.String("addr", cfg.Addr), zap.Duration("ttl", cfg.TTL))
	return cache.NewCachingProvider(rdb, cfg.TTL, inner, "", logger), func() { _ = rdb.Close() }
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
