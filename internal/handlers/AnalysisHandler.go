package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/operations/price"
	"CryptoReportBot/internal/services/analysis"
	"CryptoReportBot/internal/services/report"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrUnsupportedSymbol = errors.New("unsupported symbol")

// AnalysisHandler fetches every timeframe of a symbol and turns it into a
// report. It is safe for concurrent use.
type AnalysisHandler struct {
	provider     price.Provider
	cfg          analysis.Config
	symbols      []string
	limit        int
	fetchTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time

	mu         sync.RWMutex
	lastRun    time.Time
	lastSymbol string
}

func NewAnalysisHandler(
	provider price.Provider,
	cfg analysis.Config,
	symbols []string,
	limit int,
	fetchTimeout time.Duration,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		provider:     provider,
		cfg:          cfg,
		symbols:      symbols,
		limit:        limit,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Analyze returns the report for symbol and its text rendering.
func (h *AnalysisHandler) Analyze(ctx context.Context, symbol string) (*analysis.Report, string, error) {
	symbol, err := NormalizeSymbol(symbol, h.symbols)
	if err != nil {
		return nil, "", err
	}

	series, err := h.fetchAll(ctx, symbol)
	if err != nil {
		return nil, "", err
	}

	anchor, ok := SelectAnchor(series)
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", symbol, analysis.ErrNoUsableData)
	}

	r, err := analysis.GenerateReport(analysis.Request{
		Symbol:      symbol,
		Anchor:      anchor,
		Series:      series,
		GeneratedAt: h.now(),
	}, h.cfg)
	if err != nil {
		return nil, "", err
	}

	for _, o := range r.Omitted {
		h.logger.Warn("Timeframe omitted",
			zap.String("symbol", symbol),
			zap.String("timeframe", o.Timeframe),
			zap.String("reason", o.Reason))
	}

	h.mu.Lock()
	h.lastRun = r.GeneratedAt
	h.lastSymbol = symbol
	h.mu.Unlock()

	h.logger.Info("Generated report",
		zap.String("symbol", symbol),
		zap.Float64("entry", anchor.Close),
		zap.Int("legs", len(r.TradeMatrix)))

	return r, report.Format(r), nil
}

// fetchAll loads every timeframe in parallel. Any provider failure fails
// the whole fetch.
func (h *AnalysisHandler) fetchAll(ctx context.Context, symbol string) (map[string][]models.Candle, error) {
	if h.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.fetchTimeout)
		defer cancel()
	}

	results := make([][]models.Candle, len(models.TimeFrames))
	g, gctx := errgroup.WithContext(ctx)
	for i, tf := range models.TimeFrames {
		i, tf := i, tf
		g.Go(func() error {
			candles, err := h.provider.FetchSeries(gctx, symbol, tf, h.limit)
			if err != nil {
				return err
			}
			results[i] = candles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := make(map[string][]models.Candle, len(models.TimeFrames))
	for i, tf := range models.TimeFrames {
		if len(results[i]) > 0 {
			series[tf] = results[i]
		}
	}
	return series, nil
}

// LastAnalysis reports when and for which symbol the last report was made.
func (h *AnalysisHandler) LastAnalysis() (time.Time, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastRun, h.lastSymbol
}

func (h *AnalysisHandler) Symbols() []string {
	return append([]string(nil), h.symbols...)
}

// SelectAnchor picks the last completed candle: the second to last of the
// shortest timeframe present, since the last one is still forming.
func SelectAnchor(series map[string][]models.Candle) (models.Candle, bool) {
	for _, tf := range models.TimeFrames {
		candles := series[tf]
		switch {
		case len(candles) >= 2:
			return candles[len(candles)-2], true
		case len(candles) == 1:
			return candles[0], true
		}
	}
	return models.Candle{}, false
}

const quoteAsset = "USDT"

// NormalizeSymbol maps inputs like "eth", "ETH/USDT" or "eth-usdt" to
// "ETHUSDT". When supported is not empty the result must be in it.
func NormalizeSymbol(input string, supported []string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.NewReplacer("/", "", "-", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrUnsupportedSymbol)
	}
	if !strings.HasSuffix(s, quoteAsset) {
		s += quoteAsset
	}
	if s == quoteAsset {
		return "", fmt.Errorf("%w: %q has no base asset", ErrUnsupportedSymbol, input)
	}

	if len(supported) == 0 {
		return s, nil
	}
	for _, sym := range supported {
		if sym == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedSymbol, s, strings.Join(supported, ", "))
}
