package indicators

import "fmt"

// InsufficientDataError is returned when a series is shorter than the
// lookback the configured indicators need.
type InsufficientDataError struct {
	Timeframe string
	Have      int
	Need      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: have %d candles, need %d", e.Timeframe, e.Have, e.Need)
}
