package analysis

import (
	"testing"
	"time"

	"CryptoReportBot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(o, h, l, c float64) models.Candle {
	return models.Candle{TimeFrame: models.TimeFrame1h, Open: o, High: h, Low: l, Close: c}
}

func TestPatternDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		candles []models.Candle
		want    string
		signal  int
	}{
		{
			name:    "higher lows",
			candles: []models.Candle{bar(100, 102, 98, 101), bar(101, 103, 99, 102), bar(102, 104, 100, 103)},
			want:    PatternHigherLows,
			signal:  1,
		},
		{
			name:    "lower highs",
			candles: []models.Candle{bar(103, 106, 99, 102), bar(102, 105, 99, 101), bar(101, 104, 99, 100)},
			want:    PatternLowerHighs,
			signal:  -1,
		},
		{
			name:    "bullish engulfing",
			candles: []models.Candle{bar(102, 103, 100, 101), bar(100.5, 104, 100, 103.5)},
			want:    PatternBullishEngulfing,
			signal:  1,
		},
		{
			name:    "bearish engulfing",
			candles: []models.Candle{bar(101, 103, 100, 102), bar(102.5, 103, 99, 100)},
			want:    PatternBearishEngulfing,
			signal:  -1,
		},
		{
			name:    "bullish pin bar",
			candles: []models.Candle{bar(100, 101, 90, 100.5)},
			want:    PatternBullishPinbar,
			signal:  1,
		},
		{
			name:    "bearish pin bar",
			candles: []models.Candle{bar(100, 110, 99.5, 99.8)},
			want:    PatternBearishPinbar,
			signal:  -1,
		},
	}

	d := NewPatternDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.candles)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, tt.signal, got.Signal)
			assert.Equal(t, models.TimeFrame1h, got.Timeframe)
			assert.Greater(t, got.Strength, 0.0)
			assert.LessOrEqual(t, got.Strength, 1.0)
		})
	}
}

func TestPatternDetector_NoPattern(t *testing.T) {
	t.Parallel()

	d := NewPatternDetector()
	assert.Nil(t, d.Detect(nil))
	assert.Nil(t, d.Detect([]models.Candle{bar(100, 100, 100, 100)}))
	assert.Nil(t, d.Detect([]models.Candle{bar(100, 105, 95, 104)}))
}

func TestAnchorWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 5)
	for i := range candles {
		candles[i] = models.Candle{TimeFrame: models.TimeFrame15m, OpenTime: start.Add(time.Duration(i) * 15 * time.Minute), Close: float64(i)}
	}
	series := map[string][]models.Candle{models.TimeFrame15m: candles}

	window := anchorWindow(series, candles[3])
	assert.Equal(t, candles[1:4], window)

	window = anchorWindow(series, candles[0])
	assert.Equal(t, candles[:1], window)

	orphan := models.Candle{TimeFrame: models.TimeFrame4h, Close: 7}
	assert.Equal(t, []models.Candle{orphan}, anchorWindow(series, orphan))
}
