package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/operations/price"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	calls   int
	candles []models.Candle
	err     error
}

func (p *stubProvider) FetchSeries(_ context.Context, _, _ string, _ int) ([]models.Candle, error) {
	p.calls++
	return p.candles, p.err
}

var sample = []models.Candle{
	{Symbol: "ETHUSDT", TimeFrame: models.TimeFrame1h, OpenTime: time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC), Close: 4305},
}

func TestNewCachingProvider_Defaults(t *testing.T) {
	t.Parallel()

	p := NewCachingProvider(nil, 0, &stubProvider{}, "", zap.NewNop())
	assert.Equal(t, time.Minute, p.ttl)
	assert.Equal(t, "candles", p.namespace)
	assert.Equal(t, "candles:ETH_USDT:1h:200", p.cacheKey("ETH:USDT", "1h", 200))
}

func TestCachingProvider_NilRedisBypasses(t *testing.T) {
	t.Parallel()

	inner := &stubProvider{candles: sample}
	p := NewCachingProvider(nil, time.Minute, inner, "", zap.NewNop())

	got, err := p.FetchSeries(context.Background(), "ETHUSDT", models.TimeFrame1h, 200)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingProvider_Hit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, err := json.Marshal(sample)
	require.NoError(t, err)
	mock.ExpectGet("candles:ETHUSDT:1h:200").SetVal(string(cached))

	inner := &stubProvider{}
	p := NewCachingProvider(rdb, time.Minute, inner, "", zap.NewNop())

	got, err := p.FetchSeries(context.Background(), "ETHUSDT", models.TimeFrame1h, 200)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4305.0, got[0].Close)
	assert.True(t, sample[0].OpenTime.Equal(got[0].OpenTime))
	assert.Zero(t, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProvider_MissStores(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	encoded, err := json.Marshal(sample)
	require.NoError(t, err)
	mock.ExpectGet("candles:ETHUSDT:1h:200").RedisNil()
	mock.ExpectSet("candles:ETHUSDT:1h:200", encoded, 2*time.Minute).SetVal("OK")

	inner := &stubProvider{candles: sample}
	p := NewCachingProvider(rdb, 2*time.Minute, inner, "", zap.NewNop())

	got, err := p.FetchSeries(context.Background(), "ETHUSDT", models.TimeFrame1h, 200)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProvider_CorruptEntryIsDropped(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	encoded, err := json.Marshal(sample)
	require.NoError(t, err)
	mock.ExpectGet("candles:ETHUSDT:1h:200").SetVal("{not json")
	mock.ExpectDel("candles:ETHUSDT:1h:200").SetVal(1)
	mock.ExpectSet("candles:ETHUSDT:1h:200", encoded, time.Minute).SetVal("OK")

	inner := &stubProvider{candles: sample}
	p := NewCachingProvider(rdb, time.Minute, inner, "", zap.NewNop())

	_, err = p.FetchSeries(context.Background(), "ETHUSDT", models.TimeFrame1h, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProvider_InnerErrorIsNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("candles:ETHUSDT:4h:200").RedisNil()

	inner := &stubProvider{err: &price.ProviderError{Symbol: "ETHUSDT", Timeframe: "4h", Err: errors.New("timeout")}}
	p := NewCachingProvider(rdb, time.Minute, inner, "", zap.NewNop())

	_, err := p.FetchSeries(context.Background(), "ETHUSDT", models.TimeFrame4h, 200)

	var providerErr *price.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}
