package indicators

// OBVService computes On-Balance Volume. Only the direction of OBV carries
// meaning; the series starts at zero.
type OBVService struct{}

func NewOBVService() *OBVService {
	return &OBVService{}
}

// Calculate returns the running OBV for each candle. closes and volumes must
// have the same length.
func (s *OBVService) Calculate(closes, volumes []float64) []float64 {
	if len(closes) == 0 || len(closes) != len(volumes) {
		return nil
	}

	obv := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv[i] = obv[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			obv[i] = obv[i-1] - volumes[i]
		default:
			obv[i] = obv[i-1]
		}
	}

	return obv
}

// Slope is the OBV change across the last window points.
func (s *OBVService) Slope(obv []float64, window int) float64 {
	if len(obv) < 2 || window < 2 {
		return 0
	}
	if window > len(obv) {
		window = len(obv)
	}
	return obv[len(obv)-1] - obv[len(obv)-window]
}
