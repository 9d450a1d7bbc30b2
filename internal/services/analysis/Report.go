package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/services/indicators"
)

// Request is the input of one report: the candle series per timeframe and
// the anchor candle whose close is the entry price.
type Request struct {
	Symbol      string
	Anchor      models.Candle
	Series      map[string][]models.Candle
	GeneratedAt time.Time
}

// Omission records a timeframe left out of the report.
type Omission struct {
	Timeframe string `json:"timeframe"`
	Reason    string `json:"reason"`
}

type Report struct {
	Symbol        string                    `json:"symbol"`
	Anchor        models.Candle             `json:"anchor"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Indicators    []indicators.IndicatorSet `json:"indicators"`
	Omitted       []Omission                `json:"omitted,omitempty"`
	Pattern       *CandlePattern            `json:"pattern,omitempty"`
	Zone          Zone                      `json:"zone"`
	Sentiment     SentimentScore            `json:"sentiment"`
	TradeMatrix   []TradeLeg                `json:"trade_matrix"`
	MarketDrivers []string                  `json:"market_drivers"`
	RiskNotes     []string                  `json:"risk_notes"`
}

// GenerateReport validates cfg and runs the whole pipeline. Timeframes
// that are missing or too short are omitted and noted; the call fails with
// ErrNoUsableData only when none is left. The result depends on req and
// cfg alone.
func GenerateReport(req Request, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidRequest)
	}
	if req.Anchor.Close <= 0 {
		return nil, fmt.Errorf("%w: anchor close %.8f is not positive", ErrInvalidRequest, req.Anchor.Close)
	}

	engine := indicators.NewEngine(cfg.Indicators)
	sets := make(map[string]*indicators.IndicatorSet, len(models.TimeFrames))
	ordered := make([]indicators.IndicatorSet, 0, len(models.TimeFrames))
	var omitted []Omission
	var lastErr error

	for _, tf := range models.TimeFrames {
		candles, ok := req.Series[tf]
		if !ok {
			omitted = append(omitted, Omission{Timeframe: tf, Reason: "no data"})
			continue
		}
		set, err := engine.Compute(tf, candles)
		if err != nil {
			var insufficient *indicators.InsufficientDataError
			if !errors.As(err, &insufficient) {
				return nil, fmt.Errorf("compute %s: %w", tf, err)
			}
			omitted = append(omitted, Omission{Timeframe: tf, Reason: err.Error()})
			lastErr = err
			continue
		}
		sets[tf] = set
		ordered = append(ordered, *set)
	}

	if len(ordered) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%s: %w: %w", req.Symbol, ErrNoUsableData, lastErr)
		}
		return nil, fmt.Errorf("%s: %w", req.Symbol, ErrNoUsableData)
	}

	zone, err := DetectZone(req.Series, req.Anchor.Close, cfg)
	if err != nil {
		return nil, err
	}
	sentiment := ScoreSentiment(sets, cfg)
	legs := BuildTradeMatrix(req.Anchor.Close, zone, sentiment, cfg)
	pattern := NewPatternDetector().Detect(anchorWindow(req.Series, req.Anchor))

	return &Report{
		Symbol:        req.Symbol,
		Anchor:        req.Anchor,
		GeneratedAt:   generatedAt(req),
		Indicators:    ordered,
		Omitted:       omitted,
		Pattern:       pattern,
		Zone:          zone,
		Sentiment:     sentiment,
		TradeMatrix:   legs,
		MarketDrivers: marketDrivers(ordered, omitted, pattern, zone, sentiment, legs),
		RiskNotes:     riskNotes(cfg, zone, legs),
	}, nil
}

// generatedAt falls back to the anchor candle so a request without a
// timestamp still renders identically every time.
func generatedAt(req Request) time.Time {
	if !req.GeneratedAt.IsZero() {
		return req.GeneratedAt.UTC()
	}
	if !req.Anchor.CloseTime.IsZero() {
		return req.Anchor.CloseTime.UTC()
	}
	return req.Anchor.OpenTime.UTC()
}
