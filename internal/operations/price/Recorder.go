package price

import (
	"context"
	"time"

	"CryptoReportBot/internal/models"

	"go.uber.org/zap"
)

// CandleRecorder keeps the candle store current by copying the latest
// candles of every symbol and timeframe from a live provider.
type CandleRecorder struct {
	source  Provider
	store   CandleStore
	symbols []string
	limit   int
	logger  *zap.Logger
}

func NewCandleRecorder(source Provider, store CandleStore, symbols []string, limit int, logger *zap.Logger) *CandleRecorder {
	return &CandleRecorder{
		source:  source,
		store:   store,
		symbols: symbols,
		limit:   limit,
		logger:  logger,
	}
}

// Backfill records every timeframe once with the full limit.
func (r *CandleRecorder) Backfill(ctx context.Context) {
	for _, timeframe := range models.TimeFrames {
		r.recordCandles(ctx, timeframe, r.limit)
	}
}

// maxRefresh bounds how long a forming candle in the store may lag the
// exchange.
const maxRefresh = 15 * time.Minute

// StartRecording refreshes each timeframe once per bar, and at least
// every maxRefresh, until ctx ends.
func (r *CandleRecorder) StartRecording(ctx context.Context) {
	for _, timeframe := range models.TimeFrames {
		go r.recordTimeframe(ctx, timeframe, refreshInterval(timeframe))
	}
}

func refreshInterval(timeframe string) time.Duration {
	return min(models.TimeFrameDuration(timeframe), maxRefresh)
}

func (r *CandleRecorder) recordTimeframe(ctx context.Context, timeframe string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("Starting candle recording", zap.String("timeframe", timeframe))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping candle recording", zap.String("timeframe", timeframe))
			return
		case <-ticker.C:
			// the previous bar may have been stored while still forming
			r.recordCandles(ctx, timeframe, 2)
		}
	}
}

func (r *CandleRecorder) recordCandles(ctx context.Context, timeframe string, limit int) {
	for _, symbol := range r.symbols {
		candles, err := r.source.FetchSeries(ctx, symbol, timeframe, limit)
		if err != nil {
			r.logger.Warn("Error fetching candles", zap.Error(err))
			continue
		}

		if err := r.store.Upsert(ctx, candles); err != nil {
			r.logger.Error("Error saving candles",
				zap.String("symbol", symbol),
				zap.String("timeframe", timeframe),
				zap.Error(err))
			continue
		}

		r.logger.Debug("Recorded candles",
			zap.String("symbol", symbol),
			zap.String("timeframe", timeframe),
			zap.Int("count", len(candles)))
	}
}
