package analysis

import "math"

const (
	HorizonIntraday = "Intraday"
	HorizonSwing    = "Swing"

	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// TradeLeg is one advisory row of the trade matrix.
type TradeLeg struct {
	Horizon    string  `json:"horizon"`
	Action     string  `json:"action"`
	Entry      float64 `json:"entry"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	RiskReward float64 `json:"risk_reward"`
	Leverage   int     `json:"leverage"`
}

type TradeMatrixBuilder struct {
	riskReward float64
	intraday   HorizonConfig
	swing      HorizonConfig
}

func NewTradeMatrixBuilder(cfg Config) *TradeMatrixBuilder {
	return &TradeMatrixBuilder{
		riskReward: cfg.RiskReward,
		intraday:   cfg.Intraday,
		swing:      cfg.Swing,
	}
}

// BuildTradeMatrix runs a TradeMatrixBuilder built from cfg.
func BuildTradeMatrix(entry float64, zone Zone, sentiment SentimentScore, cfg Config) []TradeLeg {
	return NewTradeMatrixBuilder(cfg).Build(entry, zone, sentiment)
}

// Build returns the Intraday leg followed by the Swing leg. A horizon
// whose score is exactly neutral gets no leg.
func (b *TradeMatrixBuilder) Build(entry float64, zone Zone, sentiment SentimentScore) []TradeLeg {
	legs := make([]TradeLeg, 0, 2)
	if leg, ok := b.leg(HorizonIntraday, sentiment.ShortTerm, entry, zone, b.intraday); ok {
		legs = append(legs, leg)
	}
	if leg, ok := b.leg(HorizonSwing, sentiment.LongTerm, entry, zone, b.swing); ok {
		legs = append(legs, leg)
	}
	return legs
}

func (b *TradeMatrixBuilder) leg(horizon string, score, entry float64, zone Zone, h HorizonConfig) (TradeLeg, bool) {
	if score == Neutral {
		return TradeLeg{}, false
	}

	leg := TradeLeg{
		Horizon:  horizon,
		Entry:    entry,
		Leverage: h.Leverage,
	}

	if score > Neutral {
		leg.Action = ActionBuy
		leg.StopLoss = entry * (1 - h.MaxRiskFraction)
		if zone.SupportLow < entry {
			leg.StopLoss = math.Max(leg.StopLoss, zone.SupportLow)
		}
		leg.TakeProfit = entry + b.riskReward*(entry-leg.StopLoss)
	} else {
		leg.Action = ActionSell
		leg.StopLoss = entry * (1 + h.MaxRiskFraction)
		if zone.ResistanceHigh > entry {
			leg.StopLoss = math.Min(leg.StopLoss, zone.ResistanceHigh)
		}
		leg.TakeProfit = entry - b.riskReward*(leg.StopLoss-entry)
	}

	leg.RiskReward = math.Abs(leg.TakeProfit-entry) / math.Abs(entry-leg.StopLoss)
	return leg, true
}
