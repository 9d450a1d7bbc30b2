package analysis

import (
	"math"

	"CryptoReportBot/internal/models"
)

const (
	PatternHigherLows       = "higher lows"
	PatternLowerHighs       = "lower highs"
	PatternBullishEngulfing = "bullish engulfing"
	PatternBearishEngulfing = "bearish engulfing"
	PatternBullishPinbar    = "bullish pin bar"
	PatternBearishPinbar    = "bearish pin bar"
)

// CandlePattern is a price action pattern completed by the anchor candle.
// Signal is +1 for bullish and -1 for bearish patterns.
type CandlePattern struct {
	Timeframe string  `json:"timeframe"`
	Name      string  `json:"name"`
	Signal    int     `json:"signal"`
	Strength  float64 `json:"strength"`
}

type PatternDetector struct {
	// candles whose body or range is below this fraction of the close are
	// treated as dojis
	minHeightFraction float64
}

func NewPatternDetector() *PatternDetector {
	return &PatternDetector{minHeightFraction: 0.0001}
}

// Detect checks the last three candles, most specific pattern first:
// three bar structure, then engulfing, then pin bar.
func (d *PatternDetector) Detect(candles []models.Candle) *CandlePattern {
	n := len(candles)
	if n == 0 {
		return nil
	}
	c0 := candles[n-1]

	var p *CandlePattern
	if n >= 3 {
		p = threeBar(candles[n-3], candles[n-2], c0)
	}
	if p == nil && n >= 2 {
		p = d.engulfing(candles[n-2], c0)
	}
	if p == nil {
		p = d.pinbar(c0)
	}
	if p != nil {
		p.Timeframe = c0.TimeFrame
	}
	return p
}

func threeBar(c2, c1, c0 models.Candle) *CandlePattern {
	if c0.Low > c1.Low && c1.Low > c2.Low {
		return &CandlePattern{
			Name:     PatternHigherLows,
			Signal:   1,
			Strength: math.Min((c0.Low-c2.Low)/c2.Low*10, 1),
		}
	}
	if c0.High < c1.High && c1.High < c2.High {
		return &CandlePattern{
			Name:     PatternLowerHighs,
			Signal:   -1,
			Strength: math.Min((c2.High-c0.High)/c2.High*10, 1),
		}
	}
	return nil
}

func (d *PatternDetector) engulfing(prev, curr models.Candle) *CandlePattern {
	prevSize := math.Abs(prev.Close - prev.Open)
	currSize := math.Abs(curr.Close - curr.Open)
	if currSize < curr.Close*d.minHeightFraction {
		return nil
	}

	strength := 1.0
	if prevSize > 0 {
		strength = math.Min(currSize/prevSize, 1)
	}

	switch {
	case curr.Open < prev.Close && curr.Close > prev.Open:
		return &CandlePattern{Name: PatternBullishEngulfing, Signal: 1, Strength: strength}
	case curr.Open > prev.Close && curr.Close < prev.Open:
		return &CandlePattern{Name: PatternBearishEngulfing, Signal: -1, Strength: strength}
	}
	return nil
}

func (d *PatternDetector) pinbar(c models.Candle) *CandlePattern {
	body := math.Abs(c.Close - c.Open)
	upperWick := c.High - math.Max(c.Open, c.Close)
	lowerWick := math.Min(c.Open, c.Close) - c.Low
	total := c.High - c.Low
	if total <= 0 || total < c.Close*d.minHeightFraction || body >= total*0.3 {
		return nil
	}

	switch {
	case lowerWick > total*0.6:
		return &CandlePattern{Name: PatternBullishPinbar, Signal: 1, Strength: lowerWick / total}
	case upperWick > total*0.6:
		return &CandlePattern{Name: PatternBearishPinbar, Signal: -1, Strength: upperWick / total}
	}
	return nil
}

// anchorWindow returns up to three candles of the anchor's timeframe
// ending at the anchor. Later, still forming candles are ignored.
func anchorWindow(series map[string][]models.Candle, anchor models.Candle) []models.Candle {
	candles := series[anchor.TimeFrame]
	for i := len(candles) - 1; i >= 0; i-- {
		if candles[i].OpenTime.Equal(anchor.OpenTime) {
			window := append([]models.Candle(nil), candles[max(0, i-2):i]...)
			return append(window, anchor)
		}
	}
	return []models.Candle{anchor}
}
