package binance

import (
	"context"
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

type BinanceClient struct {
	client      *futures.Client
	rateLimiter *rate.Limiter
	maxRetries  uint64
}

func NewBinanceClient(apiKey, secretKey string, requestsPerSecond float64, burst int) *BinanceClient {
	// Create custom HTTP client with timeouts
	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	futuresClient := futures.NewClient(apiKey, secretKey)
	futuresClient.HTTPClient = httpClient

	return &BinanceClient{
		client:      futuresClient,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		maxRetries:  3,
	}
}

// WithBaseURL points the client at another futures endpoint.
func (c *BinanceClient) WithBaseURL(url string) *BinanceClient {
	c.client.BaseURL = url
	return c
}

// WithRetries sets how often a failed request is retried.
func (c *BinanceClient) WithRetries(n uint64) *BinanceClient {
	c.maxRetries = n
	return c
}

// GetKlines returns the latest limit klines of symbol, oldest first. The
// last kline is usually still forming.
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*futures.Kline, error) {
	var klines []*futures.Kline

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)

	err := backoff.Retry(func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		res, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			Limit(limit).
			Do(ctx)
		if err != nil {
			return err
		}
		klines = res
		return nil
	}, policy)

	return klines, err
}
