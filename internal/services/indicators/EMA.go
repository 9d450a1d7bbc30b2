package indicators

// EMAService provides Exponential Moving Average calculations
type EMAService struct{}

// CrossSignal represents a crossover between two lines
type CrossSignal struct {
	Crossed   bool // Whether cross occurred
	Direction int  // 1 (bullish), -1 (bearish)
}

// NewEMAService creates a new EMA service instance
func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate computes EMA for the entire price series. The first period-1
// entries are zero; the value at period-1 is the SMA seed.
func (s *EMAService) Calculate(prices []float64, period int) []float64 {
	if !s.validateInputs(prices, period) {
		return nil
	}

	ema := make([]float64, len(prices))
	multiplier := s.getMultiplier(period)

	ema[period-1] = s.calculateInitialSMA(prices, period)

	for i := period; i < len(prices); i++ {
		ema[i] = s.calculatePoint(prices[i], ema[i-1], multiplier)
	}

	return ema
}

// CheckCrossover detects a crossover between the last two points of a fast
// and a slow line.
func (s *EMAService) CheckCrossover(fast, slow []float64) *CrossSignal {
	if len(fast) < 2 || len(slow) < 2 {
		return &CrossSignal{Crossed: false}
	}

	currFast := fast[len(fast)-1]
	prevFast := fast[len(fast)-2]
	currSlow := slow[len(slow)-1]
	prevSlow := slow[len(slow)-2]

	bullishCross := prevFast <= prevSlow && currFast > currSlow
	bearishCross := prevFast >= prevSlow && currFast < currSlow

	if !bullishCross && !bearishCross {
		return &CrossSignal{Crossed: false}
	}

	direction := 1
	if bearishCross {
		direction = -1
	}

	return &CrossSignal{
		Crossed:   true,
		Direction: direction,
	}
}

func (s *EMAService) validateInputs(prices []float64, period int) bool {
	if len(prices) == 0 || period <= 0 || len(prices) < period {
		return false
	}
	return true
}

func (s *EMAService) getMultiplier(period int) float64 {
	return 2.0 / float64(period+1)
}

func (s *EMAService) calculateInitialSMA(prices []float64, period int) float64 {
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}

func (s *EMAService) calculatePoint(price, prevEMA, multiplier float64) float64 {
	return (price-prevEMA)*multiplier + prevEMA
}
