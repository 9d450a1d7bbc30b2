package price

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/operations/binance"

	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"
)

// BinanceProvider reads klines from Binance futures.
type BinanceProvider struct {
	client *binance.BinanceClient
	logger *zap.Logger
}

func NewBinanceProvider(client *binance.BinanceClient, logger *zap.Logger) *BinanceProvider {
	return &BinanceProvider{
		client: client,
		logger: logger,
	}
}

func (p *BinanceProvider) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	klines, err := p.client.GetKlines(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, &ProviderError{Symbol: symbol, Timeframe: timeframe, Err: err}
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := candleFromKline(symbol, timeframe, k)
		if err != nil {
			return nil, &ProviderError{Symbol: symbol, Timeframe: timeframe, Err: err}
		}
		candles = append(candles, candle)
	}

	p.logger.Debug("Fetched candles",
		zap.String("symbol", symbol),
		zap.String("timeframe", timeframe),
		zap.Int("count", len(candles)))

	return candles, nil
}

func candleFromKline(symbol, timeframe string, k *futures.Kline) (models.Candle, error) {
	var err error
	parse := func(field, s string) float64 {
		if err != nil {
			return 0
		}
		var f float64
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			err = fmt.Errorf("kline %d %s %q: %w", k.OpenTime, field, s, err)
		}
		return f
	}

	candle := models.Candle{
		Symbol:     symbol,
		TimeFrame:  timeframe,
		OpenTime:   time.UnixMilli(k.OpenTime).UTC(),
		CloseTime:  time.UnixMilli(k.CloseTime).UTC(),
		Open:       parse("open", k.Open),
		High:       parse("high", k.High),
		Low:        parse("low", k.Low),
		Close:      parse("close", k.Close),
		Volume:     parse("volume", k.Volume),
		TradeCount: k.TradeNum,
	}
	return candle, err
}
