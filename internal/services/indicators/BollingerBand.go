package indicators

import "math"

type BBandsService struct{}

type BBandsResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64 // Volatility indicator
}

const (
	BandAboveUpper = "above_upper"
	BandUpperHalf  = "upper_half"
	BandMiddle     = "middle"
	BandLowerHalf  = "lower_half"
	BandBelowLower = "below_lower"
)

// squeezeRatio marks a squeeze when the current width is below this share of
// the recent average width.
const squeezeRatio = 0.8

func NewBBandsService() *BBandsService {
	return &BBandsService{}
}

func (s *BBandsService) Calculate(prices []float64, period int, deviations float64) *BBandsResult {
	if period <= 0 || len(prices) < period {
		return nil
	}

	upper := make([]float64, len(prices))
	middle := make([]float64, len(prices))
	lower := make([]float64, len(prices))
	width := make([]float64, len(prices))

	for i := period - 1; i < len(prices); i++ {
		subset := prices[i-period+1 : i+1]

		sum := 0.0
		for _, price := range subset {
			sum += price
		}
		sma := sum / float64(period)
		middle[i] = sma

		squareSum := 0.0
		for _, price := range subset {
			diff := price - sma
			squareSum += diff * diff
		}
		stdDev := math.Sqrt(squareSum / float64(period))

		upper[i] = sma + (deviations * stdDev)
		lower[i] = sma - (deviations * stdDev)

		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i]
		}
	}

	return &BBandsResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
		Width:  width,
	}
}

// Position reports where price sits relative to the last band values.
func (r *BBandsResult) Position(price float64) string {
	last := len(r.Middle) - 1
	upper, middle, lower := r.Upper[last], r.Middle[last], r.Lower[last]

	switch {
	case upper == lower:
		return BandMiddle
	case price > upper:
		return BandAboveUpper
	case price > middle:
		return BandUpperHalf
	case price > lower:
		return BandLowerHalf
	default:
		return BandBelowLower
	}
}

// Squeeze reports whether the last band width is narrow compared to the mean
// width of the last lookback defined bands.
func (r *BBandsResult) Squeeze(period, lookback int) bool {
	defined := r.Width[period-1:]
	if len(defined) < 2 || lookback < 2 {
		return false
	}
	if lookback > len(defined) {
		lookback = len(defined)
	}

	recent := defined[len(defined)-lookback:]
	sum := 0.0
	for _, w := range recent {
		sum += w
	}
	avg := sum / float64(len(recent))

	return avg > 0 && recent[len(recent)-1] < avg*squeezeRatio
}
