package indicators

type MACDService struct {
	ema *EMAService
}

// MACDResult holds the three MACD lines. Entries before the first defined
// value of each line are zero.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

func NewMACDService() *MACDService {
	return &MACDService{
		ema: NewEMAService(),
	}
}

// Calculate returns MACD line, signal line, and histogram
// Default periods: fast=12, slow=26, signal=9
func (s *MACDService) Calculate(prices []float64, fastPeriod, slowPeriod, signalPeriod int) *MACDResult {
	if !s.ValidatePeriods(prices, fastPeriod, slowPeriod, signalPeriod) {
		return nil
	}

	fastEMA := s.ema.Calculate(prices, fastPeriod)
	slowEMA := s.ema.Calculate(prices, slowPeriod)

	// MACD line is defined from the first slow EMA value onwards
	start := slowPeriod - 1
	macdLine := make([]float64, len(prices))
	for i := start; i < len(prices); i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal line is an EMA over the defined part of the MACD line only
	defined := s.ema.Calculate(macdLine[start:], signalPeriod)
	signalLine := make([]float64, len(prices))
	copy(signalLine[start:], defined)

	histogram := make([]float64, len(prices))
	for i := start + signalPeriod - 1; i < len(prices); i++ {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return &MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

// ValidatePeriods reports whether prices is long enough to produce at least
// one histogram value.
func (s *MACDService) ValidatePeriods(prices []float64, fastPeriod, slowPeriod, signalPeriod int) bool {
	minLength := slowPeriod + signalPeriod - 1
	return len(prices) >= minLength &&
		fastPeriod > 0 &&
		slowPeriod > fastPeriod &&
		signalPeriod > 0
}
