package indicators

import "math"

// RSIService computes the Relative Strength Index with Wilder's smoothing.
type RSIService struct{}

const (
	RSIExtremelyOverbought = "extremely_overbought"
	RSIOverbought          = "overbought"
	RSIBullish             = "bullish"
	RSINeutral             = "neutral"
	RSIBearish             = "bearish"
	RSIOversold            = "oversold"
	RSIExtremelyOversold   = "extremely_oversold"
)

func NewRSIService() *RSIService {
	return &RSIService{}
}

// Calculate returns one RSI value per price. Values before index period are
// zero. Returns nil when fewer than period+1 prices are given.
func (s *RSIService) Calculate(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	rsi := make([]float64, len(prices))

	// Seed averages with the simple mean of the first period changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = s.value(avgGain, avgLoss)

	// Wilder smoothing for the rest of the series
	for i := period + 1; i < len(prices); i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = s.value(avgGain, avgLoss)
	}

	return rsi
}

// Condition labels an RSI reading.
func Condition(rsi float64) string {
	switch {
	case rsi > 80:
		return RSIExtremelyOverbought
	case rsi > 70:
		return RSIOverbought
	case rsi > 60:
		return RSIBullish
	case rsi > 40:
		return RSINeutral
	case rsi > 30:
		return RSIBearish
	case rsi > 20:
		return RSIOversold
	default:
		return RSIExtremelyOversold
	}
}

func (s *RSIService) value(avgGain, avgLoss float64) float64 {
	// No movement at all
	if avgGain == 0 && avgLoss == 0 {
		return 50
	}
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return clamp(100-(100/(1+rs)), 0, 100)
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, math.Abs(change)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
