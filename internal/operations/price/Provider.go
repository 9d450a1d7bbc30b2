package price

import (
	"context"
	"fmt"

	"CryptoReportBot/internal/models"
)

// Provider supplies candle series, oldest first.
type Provider interface {
	FetchSeries(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

// ProviderError wraps a market data failure with the request it belongs to.
type ProviderError struct {
	Symbol    string
	Timeframe string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Symbol, e.Timeframe, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
