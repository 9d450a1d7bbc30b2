package indicators

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wave is a deterministic, non-monotonic price path.
func wave(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i)/3) + float64(i)*0.2
	}
	return prices
}

func rising(n int, start, step float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start + float64(i)*step
	}
	return prices
}

func TestEMA_SeedIsSMA(t *testing.T) {
	t.Parallel()

	ema := NewEMAService().Calculate([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, ema, 5)
	assert.Equal(t, 0.0, ema[1])
	assert.InDelta(t, 2.0, ema[2], 1e-12)
	// multiplier 0.5
	assert.InDelta(t, 3.0, ema[3], 1e-12)
	assert.InDelta(t, 4.0, ema[4], 1e-12)
}

func TestEMA_InvalidInput(t *testing.T) {
	t.Parallel()

	s := NewEMAService()
	assert.Nil(t, s.Calculate(nil, 3))
	assert.Nil(t, s.Calculate([]float64{1, 2}, 3))
	assert.Nil(t, s.Calculate([]float64{1, 2}, 0))
}

func TestCheckCrossover(t *testing.T) {
	t.Parallel()

	s := NewEMAService()
	tests := []struct {
		name      string
		fast      []float64
		slow      []float64
		crossed   bool
		direction int
	}{
		{"bullish", []float64{1, 3}, []float64{2, 2}, true, 1},
		{"bearish", []float64{3, 1}, []float64{2, 2}, true, -1},
		{"none above", []float64{3, 4}, []float64{2, 2}, false, 0},
		{"too short", []float64{3}, []float64{2}, false, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.CheckCrossover(tt.fast, tt.slow)
			assert.Equal(t, tt.crossed, got.Crossed)
			assert.Equal(t, tt.direction, got.Direction)
		})
	}
}

func TestRSI_FlatSeriesIsFifty(t *testing.T) {
	t.Parallel()

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 4300
	}

	rsi := NewRSIService().Calculate(prices, 14)
	require.NotNil(t, rsi)
	for i := 14; i < len(rsi); i++ {
		assert.Equal(t, 50.0, rsi[i])
	}
}

func TestRSI_RisingSeriesIsHundred(t *testing.T) {
	t.Parallel()

	rsi := NewRSIService().Calculate(rising(30, 100, 1), 14)
	require.NotNil(t, rsi)
	assert.Equal(t, 100.0, rsi[len(rsi)-1])
}

func TestRSI_FallingSeriesIsZero(t *testing.T) {
	t.Parallel()

	rsi := NewRSIService().Calculate(rising(30, 200, -1), 14)
	require.NotNil(t, rsi)
	assert.Equal(t, 0.0, rsi[len(rsi)-1])
}

func TestRSI_Bounds(t *testing.T) {
	t.Parallel()

	rsi := NewRSIService().Calculate(wave(200), 14)
	require.NotNil(t, rsi)
	for i := 14; i < len(rsi); i++ {
		assert.GreaterOrEqual(t, rsi[i], 0.0)
		assert.LessOrEqual(t, rsi[i], 100.0)
	}
}

func TestRSI_MatchesTALib(t *testing.T) {
	t.Parallel()

	prices := wave(120)
	ours := NewRSIService().Calculate(prices, 14)
	ref := talib.Rsi(prices, 14)

	require.Len(t, ref, len(ours))
	for i := 20; i < len(ours); i++ {
		assert.InDelta(t, ref[i], ours[i], 1e-6, "index %d", i)
	}
}

func TestRSI_TooShort(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewRSIService().Calculate(rising(14, 1, 1), 14))
}

func TestCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rsi  float64
		want string
	}{
		{85, RSIExtremelyOverbought},
		{75, RSIOverbought},
		{65, RSIBullish},
		{50, RSINeutral},
		{35, RSIBearish},
		{25, RSIOversold},
		{10, RSIExtremelyOversold},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Condition(tt.rsi), "rsi %.0f", tt.rsi)
	}
}

func TestMACD_HistogramIdentity(t *testing.T) {
	t.Parallel()

	result := NewMACDService().Calculate(wave(150), 12, 26, 9)
	require.NotNil(t, result)

	for i := 26 + 9 - 2; i < len(result.Histogram); i++ {
		assert.Equal(t, result.MACD[i]-result.Signal[i], result.Histogram[i])
	}
}

func TestMACD_RisingSeriesIsPositive(t *testing.T) {
	t.Parallel()

	result := NewMACDService().Calculate(rising(60, 100, 1), 12, 26, 9)
	require.NotNil(t, result)
	assert.Greater(t, result.MACD[59], 0.0)
}

func TestMACD_ValidatePeriods(t *testing.T) {
	t.Parallel()

	s := NewMACDService()
	assert.False(t, s.ValidatePeriods(rising(33, 1, 1), 12, 26, 9))
	assert.True(t, s.ValidatePeriods(rising(34, 1, 1), 12, 26, 9))
	assert.False(t, s.ValidatePeriods(rising(60, 1, 1), 26, 12, 9))
}

func TestOBV_Monotonic(t *testing.T) {
	t.Parallel()

	s := NewOBVService()
	volumes := make([]float64, 20)
	for i := range volumes {
		volumes[i] = 1000
	}

	up := s.Calculate(rising(20, 100, 1), volumes)
	down := s.Calculate(rising(20, 100, -1), volumes)
	for i := 1; i < 20; i++ {
		assert.GreaterOrEqual(t, up[i], up[i-1])
		assert.LessOrEqual(t, down[i], down[i-1])
	}
	assert.Equal(t, 19000.0, up[19])
	assert.Equal(t, -19000.0, down[19])
}

func TestOBV_MatchesTALibUpToOffset(t *testing.T) {
	t.Parallel()

	prices := wave(60)
	volumes := make([]float64, len(prices))
	for i := range volumes {
		volumes[i] = 500 + float64(i%7)*100
	}

	ours := NewOBVService().Calculate(prices, volumes)
	ref := talib.Obv(prices, volumes)
	for i := range ours {
		assert.InDelta(t, ref[i]-volumes[0], ours[i], 1e-9)
	}
}

func TestOBV_Slope(t *testing.T) {
	t.Parallel()

	s := NewOBVService()
	obv := []float64{0, 10, 20, 15, 30, 40}
	assert.Equal(t, 30.0, s.Slope(obv, 5))
	assert.Equal(t, 40.0, s.Slope(obv, 50))
	assert.Equal(t, 0.0, s.Slope(obv[:1], 5))
	assert.Nil(t, s.Calculate([]float64{1, 2}, []float64{1}))
}

func TestBollinger_PositionAndSqueeze(t *testing.T) {
	t.Parallel()

	s := NewBBandsService()

	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 100
	}
	bands := s.Calculate(flat, 20, 2)
	require.NotNil(t, bands)
	assert.Equal(t, BandMiddle, bands.Position(100))
	assert.False(t, bands.Squeeze(20, 20))

	// wide swings followed by a quiet tail
	prices := wave(40)
	for i := 0; i < 10; i++ {
		prices = append(prices, 110, 110.1)
	}
	bands = s.Calculate(prices, 20, 2)
	require.NotNil(t, bands)
	assert.True(t, bands.Squeeze(20, 20))

	assert.Nil(t, s.Calculate(rising(5, 1, 1), 20, 2))
}
