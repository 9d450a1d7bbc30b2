package handlers

import (
	"context"
	"time"

	"CryptoReportBot/internal/operations/price"

	"go.uber.org/zap"
)

const pruneInterval = 24 * time.Hour

// CandlePruner drops recorded candles older than a cutoff while keeping
// the newest keep candles of every series.
type CandlePruner interface {
	Prune(ctx context.Context, cutoff time.Time, keep int) (int64, error)
}

// PriceHandler keeps the candle store warm: it backfills every symbol,
// records new bars as they close and prunes candles past retention.
type PriceHandler struct {
	recorder  *price.CandleRecorder
	pruner    CandlePruner
	retention time.Duration
	keep      int
	logger    *zap.Logger
	now       func() time.Time
}

func NewPriceHandler(recorder *price.CandleRecorder, pruner CandlePruner, retention time.Duration, keep int, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{
		recorder:  recorder,
		pruner:    pruner,
		retention: retention,
		keep:      keep,
		logger:    logger,
		now:       time.Now,
	}
}

// Start backfills synchronously, then records and prunes in the
// background until ctx ends.
func (h *PriceHandler) Start(ctx context.Context) {
	h.logger.Info("Backfilling candle store")
	h.recorder.Backfill(ctx)

	h.recorder.StartRecording(ctx)

	if h.retention > 0 && h.pruner != nil {
		go h.pruneLoop(ctx)
	}
}

func (h *PriceHandler) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		h.Prune(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Prune removes candles older than the retention window, short of the
// newest keep bars each series needs for analysis.
func (h *PriceHandler) Prune(ctx context.Context) {
	cutoff := h.now().Add(-h.retention)
	removed, err := h.pruner.Prune(ctx, cutoff, h.keep)
	if err != nil {
		h.logger.Error("Failed to prune candles", zap.Time("cutoff", cutoff), zap.Error(err))
		return
	}
	if removed > 0 {
		h.logger.Info("Pruned old candles", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
}
