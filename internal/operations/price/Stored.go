package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CryptoReportBot/internal/models"
)

var (
	ErrNoCandles    = errors.New("no candles stored")
	ErrShortSeries  = errors.New("stored series too short")
	ErrGappedSeries = errors.New("stored series has gaps")
	ErrStaleSeries  = errors.New("stored series is stale")
)

// CandleStore is the persistence the stored provider and the recorder
// need. *repositories.CandleRepository implements it.
type CandleStore interface {
	Upsert(ctx context.Context, candles []models.Candle) error
	Latest(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

// StoredProvider serves series from the candle store. A series that is
// short, gapped or stale is reported as a *ProviderError so that a
// FallbackProvider moves on to the live source.
type StoredProvider struct {
	store CandleStore
	now   func() time.Time
}

func NewStoredProvider(store CandleStore) *StoredProvider {
	return &StoredProvider{store: store, now: time.Now}
}

// WithClock replaces the clock used for the staleness check.
func (p *StoredProvider) WithClock(now func() time.Time) *StoredProvider {
	p.now = now
	return p
}

func (p *StoredProvider) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	candles, err := p.store.Latest(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, &ProviderError{Symbol: symbol, Timeframe: timeframe, Err: err}
	}
	if err := p.check(candles, timeframe, limit); err != nil {
		return nil, &ProviderError{Symbol: symbol, Timeframe: timeframe, Err: err}
	}
	return candles, nil
}

func (p *StoredProvider) check(candles []models.Candle, timeframe string, limit int) error {
	if len(candles) == 0 {
		return ErrNoCandles
	}
	if len(candles) < limit {
		return fmt.Errorf("%w: have %d of %d candles", ErrShortSeries, len(candles), limit)
	}

	step := models.TimeFrameDuration(timeframe)
	if step <= 0 {
		return nil
	}
	for i := 1; i < len(candles); i++ {
		if gap := candles[i].OpenTime.Sub(candles[i-1].OpenTime); gap != step {
			return fmt.Errorf("%w: %s between %s and %s", ErrGappedSeries, gap,
				candles[i-1].OpenTime.Format(time.RFC3339), candles[i].OpenTime.Format(time.RFC3339))
		}
	}

	// the recorder refreshes at least once per bar, so a last candle that
	// closed more than a bar ago means recording has stopped
	last := candles[len(candles)-1]
	if p.now().After(last.CloseTime.Add(step)) {
		return fmt.Errorf("%w: last candle closed %s", ErrStaleSeries, last.CloseTime.Format(time.RFC3339))
	}
	return nil
}
