package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/operations/price"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	mu      sync.Mutex
	candles []models.Candle
	cutoffs []time.Time
	keeps   []int
	err     error
}

func (s *fakeStore) Upsert(_ context.Context, candles []models.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candles = append(s.candles, candles...)
	return nil
}

func (s *fakeStore) Latest(_ context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	return nil, nil
}

func (s *fakeStore) Prune(_ context.Context, cutoff time.Time, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	s.keeps = append(s.keeps, keep)
	return 3, s.err
}

func (s *fakeStore) pruned() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.cutoffs...)
}

func TestPriceHandler_StartBackfillsAndPrunes(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	// background recorders outlive the test, so they get a no-op logger
	recorder := price.NewCandleRecorder(newStubProvider(fixtureSeries("ETHUSDT")), store, []string{"ETHUSDT"}, 50, zap.NewNop())
	h := NewPriceHandler(recorder, store, 48*time.Hour, 50, zap.NewNop())
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx)

	store.mu.Lock()
	assert.Len(t, store.candles, 4*50)
	store.mu.Unlock()

	require.Eventually(t, func() bool { return len(store.pruned()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, now.Add(-48*time.Hour), store.pruned()[0])
	store.mu.Lock()
	assert.Equal(t, []int{50}, store.keeps)
	store.mu.Unlock()
}

func TestPriceHandler_PruneError(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("locked")}
	h := NewPriceHandler(nil, store, time.Hour, 0, zaptest.NewLogger(t))
	h.Prune(context.Background())
	assert.Len(t, store.pruned(), 1)
}
