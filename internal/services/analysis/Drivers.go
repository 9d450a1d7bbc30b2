package analysis

import (
	"fmt"
	"strings"

	"CryptoReportBot/internal/services/indicators"
)

func marketDrivers(sets []indicators.IndicatorSet, omitted []Omission, pattern *CandlePattern, zone Zone, sentiment SentimentScore, legs []TradeLeg) []string {
	var drivers []string

	drivers = append(drivers, biasDriver(sentiment))

	for _, set := range sets {
		if cond := indicators.Condition(set.RSI); cond != indicators.RSINeutral {
			drivers = append(drivers, fmt.Sprintf("%s RSI %s (%.1f)", set.Timeframe, strings.ReplaceAll(cond, "_", " "), set.RSI))
		}
		if set.Crossover != indicators.CrossoverNone {
			drivers = append(drivers, fmt.Sprintf("%s MACD %s crossover", set.Timeframe, set.Crossover))
		}
		switch set.Bollinger {
		case indicators.BandAboveUpper:
			drivers = append(drivers, fmt.Sprintf("%s price above upper Bollinger band", set.Timeframe))
		case indicators.BandBelowLower:
			drivers = append(drivers, fmt.Sprintf("%s price below lower Bollinger band", set.Timeframe))
		}
		if set.Squeeze {
			drivers = append(drivers, fmt.Sprintf("%s Bollinger squeeze, volatility expansion likely", set.Timeframe))
		}
	}

	if pattern != nil {
		drivers = append(drivers, fmt.Sprintf("Anchor %s candle: %s (strength %.2f)", pattern.Timeframe, pattern.Name, pattern.Strength))
	}

	if flow := volumeFlow(sets); flow != "" {
		drivers = append(drivers, flow)
	}

	if zone.Compressed {
		drivers = append(drivers, fmt.Sprintf("Compressed zone: support and resistance overlap on %s, range-bound price action", zone.Source))
	} else {
		drivers = append(drivers, fmt.Sprintf("Key levels taken from %s swing points", zone.Source))
	}

	if sentiment.ShortTermFrames == 0 {
		drivers = append(drivers, "No short-term timeframe available; short-term sentiment held neutral at 0.50")
	}
	if sentiment.LongTermFrames == 0 {
		drivers = append(drivers, "No long-term timeframe available; long-term sentiment held neutral at 0.50")
	}

	for _, horizon := range []string{HorizonIntraday, HorizonSwing} {
		if !hasHorizon(legs, horizon) {
			drivers = append(drivers, fmt.Sprintf("%s: neutral sentiment, no trade", horizon))
		}
	}

	for _, o := range omitted {
		drivers = append(drivers, fmt.Sprintf("%s omitted: %s", o.Timeframe, o.Reason))
	}

	return drivers
}

func biasDriver(s SentimentScore) string {
	short, long := Bias(s.ShortTerm), Bias(s.LongTerm)
	switch {
	case short == long && short != "Neutral":
		return fmt.Sprintf("Aligned %s bias: short-term %.2f and long-term %.2f", strings.ToLower(short), s.ShortTerm, s.LongTerm)
	case short != "Neutral" && long != "Neutral":
		return fmt.Sprintf("Mixed bias: short-term %s (%.2f) vs long-term %s (%.2f)", strings.ToLower(short), s.ShortTerm, strings.ToLower(long), s.LongTerm)
	default:
		return fmt.Sprintf("Short-term %s (%.2f), long-term %s (%.2f)", strings.ToLower(short), s.ShortTerm, strings.ToLower(long), s.LongTerm)
	}
}

// volumeFlow summarises OBV slope direction across timeframes.
func volumeFlow(sets []indicators.IndicatorSet) string {
	var up, down, flat []string
	for _, set := range sets {
		switch {
		case set.OBVSlope > 0:
			up = append(up, set.Timeframe)
		case set.OBVSlope < 0:
			down = append(down, set.Timeframe)
		default:
			flat = append(flat, set.Timeframe)
		}
	}

	var parts []string
	if len(up) > 0 {
		parts = append(parts, "accumulation on "+strings.Join(up, ", "))
	}
	if len(down) > 0 {
		parts = append(parts, "distribution on "+strings.Join(down, ", "))
	}
	if len(flat) > 0 {
		parts = append(parts, "flat on "+strings.Join(flat, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "OBV " + strings.Join(parts, "; ")
}

func riskNotes(cfg Config, zone Zone, legs []TradeLeg) []string {
	var notes []string

	if cfg.Intraday.MaxRiskFraction == cfg.Swing.MaxRiskFraction {
		notes = append(notes, fmt.Sprintf("Risk no more than %.1f%% of capital per trade", cfg.Intraday.MaxRiskFraction*100))
	} else {
		notes = append(notes, fmt.Sprintf("Risk no more than %.1f%% of capital intraday and %.1f%% on swing trades",
			cfg.Intraday.MaxRiskFraction*100, cfg.Swing.MaxRiskFraction*100))
	}
	notes = append(notes, fmt.Sprintf("Leverage capped at %dx intraday and %dx swing; reduce size when volatility expands",
		cfg.Intraday.Leverage, cfg.Swing.Leverage))

	if len(legs) == 0 {
		notes = append(notes, "No actionable setup: stay flat until sentiment leaves neutral")
	}
	for _, leg := range legs {
		side := "below"
		if leg.Action == ActionSell {
			side = "above"
		}
		notes = append(notes, fmt.Sprintf("%s %s invalidated on a close %s %.2f", leg.Horizon, leg.Action, side, leg.StopLoss))
	}
	if len(legs) > 0 {
		notes = append(notes, "Move the stop to breakeven once price reaches 1R in profit")
		notes = append(notes, fmt.Sprintf("Take partial profit at 1R and trail the rest toward the %.1fR target", cfg.RiskReward))
	}

	if zone.Compressed {
		notes = append(notes, "Range-bound conditions: halve position size until price leaves the compressed zone")
	}

	return notes
}

func hasHorizon(legs []TradeLeg, horizon string) bool {
	for _, leg := range legs {
		if leg.Horizon == horizon {
			return true
		}
	}
	return false
}
