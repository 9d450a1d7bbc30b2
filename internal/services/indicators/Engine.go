package indicators

import (
	"CryptoReportBot/internal/models"
)

// Params holds the indicator periods used by Engine.
type Params struct {
	RSIPeriod           int     `mapstructure:"rsi_period" yaml:"rsi_period" validate:"gte=2"`
	MACDFast            int     `mapstructure:"macd_fast" yaml:"macd_fast" validate:"gte=1"`
	MACDSlow            int     `mapstructure:"macd_slow" yaml:"macd_slow" validate:"gtfield=MACDFast"`
	MACDSignal          int     `mapstructure:"macd_signal" yaml:"macd_signal" validate:"gte=1"`
	OBVSlopeWindow      int     `mapstructure:"obv_slope_window" yaml:"obv_slope_window" validate:"gte=2"`
	BollingerPeriod     int     `mapstructure:"bollinger_period" yaml:"bollinger_period" validate:"gte=2"`
	BollingerDeviations float64 `mapstructure:"bollinger_deviations" yaml:"bollinger_deviations" validate:"gt=0"`
}

// DefaultParams returns RSI(14), MACD(12,26,9), a 5 candle OBV slope and
// Bollinger(20, 2).
func DefaultParams() Params {
	return Params{
		RSIPeriod:           14,
		MACDFast:            12,
		MACDSlow:            26,
		MACDSignal:          9,
		OBVSlopeWindow:      5,
		BollingerPeriod:     20,
		BollingerDeviations: 2.0,
	}
}

// RequiredCandles is the minimum series length Compute accepts.
func (p Params) RequiredCandles() int {
	need := p.RSIPeriod + 1
	if macd := p.MACDSlow + p.MACDSignal; macd > need {
		need = macd
	}
	return need
}

const (
	CrossoverNone    = "none"
	CrossoverBullish = "bullish"
	CrossoverBearish = "bearish"
)

// IndicatorSet is the latest indicator reading of one timeframe.
type IndicatorSet struct {
	Timeframe  string  `json:"timeframe"`
	RSI        float64 `json:"rsi"`
	MACDLine   float64 `json:"macd_line"`
	SignalLine float64 `json:"signal_line"`
	Histogram  float64 `json:"histogram"`
	OBV        float64 `json:"obv"`
	OBVSlope   float64 `json:"obv_slope"`
	Crossover  string  `json:"crossover"`
	Bollinger  string  `json:"bollinger,omitempty"`
	Squeeze    bool    `json:"squeeze"`
}

// Engine computes an IndicatorSet from a candle series. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	params Params
	ema    *EMAService
	rsi    *RSIService
	macd   *MACDService
	obv    *OBVService
	bbands *BBandsService
}

func NewEngine(params Params) *Engine {
	return &Engine{
		params: params,
		ema:    NewEMAService(),
		rsi:    NewRSIService(),
		macd:   NewMACDService(),
		obv:    NewOBVService(),
		bbands: NewBBandsService(),
	}
}

// Compute returns the indicators at the last candle of the series.
func (e *Engine) Compute(timeframe string, candles []models.Candle) (*IndicatorSet, error) {
	need := e.params.RequiredCandles()
	if len(candles) < need {
		return nil, &InsufficientDataError{Timeframe: timeframe, Have: len(candles), Need: need}
	}

	closes := models.Closes(candles)
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.Volume
	}

	p := e.params
	rsi := e.rsi.Calculate(closes, p.RSIPeriod)
	macd := e.macd.Calculate(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	obv := e.obv.Calculate(closes, volumes)
	if rsi == nil || macd == nil || obv == nil {
		return nil, &InsufficientDataError{Timeframe: timeframe, Have: len(candles), Need: need}
	}

	last := len(candles) - 1
	set := &IndicatorSet{
		Timeframe:  timeframe,
		RSI:        rsi[last],
		MACDLine:   macd.MACD[last],
		SignalLine: macd.Signal[last],
		Histogram:  macd.Histogram[last],
		OBV:        obv[last],
		OBVSlope:   e.obv.Slope(obv, p.OBVSlopeWindow),
		Crossover:  CrossoverNone,
	}

	cross := e.ema.CheckCrossover(macd.MACD[last-1:], macd.Signal[last-1:])
	if cross.Crossed {
		set.Crossover = CrossoverBullish
		if cross.Direction < 0 {
			set.Crossover = CrossoverBearish
		}
	}

	if bands := e.bbands.Calculate(closes, p.BollingerPeriod, p.BollingerDeviations); bands != nil {
		set.Bollinger = bands.Position(closes[last])
		set.Squeeze = bands.Squeeze(p.BollingerPeriod, p.BollingerPeriod)
	}

	return set, nil
}
