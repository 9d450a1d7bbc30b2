package price

import (
	"context"

	"CryptoReportBot/internal/models"

	"go.uber.org/zap"
)

// FallbackProvider reads from primary and falls back to secondary when
// primary fails.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *zap.Logger
}

func NewFallbackProvider(primary, secondary Provider, logger *zap.Logger) *FallbackProvider {
	return &FallbackProvider{primary: primary, secondary: secondary, logger: logger}
}

func (p *FallbackProvider) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	candles, err := p.primary.FetchSeries(ctx, symbol, timeframe, limit)
	if err == nil {
		return candles, nil
	}

	p.logger.Debug("Primary provider failed, falling back",
		zap.String("symbol", symbol),
		zap.String("timeframe", timeframe),
		zap.Error(err))
	return p.secondary.FetchSeries(ctx, symbol, timeframe, limit)
}
