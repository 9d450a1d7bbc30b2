package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeMatrixBuilder_Legs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		zone      Zone
		sentiment SentimentScore
		action    string
		sl, tp    float64
	}{
		{
			name:      "buy stops at support",
			zone:      Zone{SupportLow: 4240, SupportHigh: 4252, ResistanceLow: 4360, ResistanceHigh: 4375},
			sentiment: SentimentScore{ShortTerm: 0.8, LongTerm: 0.5},
			action:    ActionBuy, sl: 4240, tp: 4435,
		},
		{
			name:      "buy capped by max risk",
			zone:      Zone{SupportLow: 4000, SupportHigh: 4010, ResistanceLow: 4500, ResistanceHigh: 4520},
			sentiment: SentimentScore{ShortTerm: 0.8, LongTerm: 0.5},
			action:    ActionBuy, sl: 4218.9, tp: 4477.2,
		},
		{
			name:      "support above entry is ignored",
			zone:      Zone{SupportLow: 4400, SupportHigh: 4410, ResistanceLow: 4500, ResistanceHigh: 4520},
			sentiment: SentimentScore{ShortTerm: 0.8, LongTerm: 0.5},
			action:    ActionBuy, sl: 4218.9, tp: 4477.2,
		},
		{
			name:      "sell stops at resistance",
			zone:      Zone{SupportLow: 4240, SupportHigh: 4252, ResistanceLow: 4330, ResistanceHigh: 4350},
			sentiment: SentimentScore{ShortTerm: 0.2, LongTerm: 0.5},
			action:    ActionSell, sl: 4350, tp: 4215,
		},
		{
			name:      "sell capped by max risk",
			zone:      Zone{SupportLow: 4240, SupportHigh: 4252, ResistanceLow: 4600, ResistanceHigh: 4650},
			sentiment: SentimentScore{ShortTerm: 0.2, LongTerm: 0.5},
			action:    ActionSell, sl: 4391.1, tp: 4132.8,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			legs := BuildTradeMatrix(4305, tt.zone, tt.sentiment, DefaultConfig())
			require.Len(t, legs, 1)

			leg := legs[0]
			assert.Equal(t, HorizonIntraday, leg.Horizon)
			assert.Equal(t, tt.action, leg.Action)
			assert.Equal(t, 4305.0, leg.Entry)
			assert.InDelta(t, tt.sl, leg.StopLoss, 1e-6)
			assert.InDelta(t, tt.tp, leg.TakeProfit, 1e-6)
			assert.InDelta(t, 2.0, leg.RiskReward, 1e-6)
			assert.Equal(t, 5, leg.Leverage)
		})
	}
}

func TestTradeMatrixBuilder_OrderAndLeverage(t *testing.T) {
	t.Parallel()

	zone := Zone{SupportLow: 4240, SupportHigh: 4252, ResistanceLow: 4360, ResistanceHigh: 4375}
	legs := BuildTradeMatrix(4305, zone, SentimentScore{ShortTerm: 0.7, LongTerm: 0.3}, DefaultConfig())

	require.Len(t, legs, 2)
	assert.Equal(t, HorizonIntraday, legs[0].Horizon)
	assert.Equal(t, ActionBuy, legs[0].Action)
	assert.Equal(t, 5, legs[0].Leverage)
	assert.Equal(t, HorizonSwing, legs[1].Horizon)
	assert.Equal(t, ActionSell, legs[1].Action)
	assert.Equal(t, 3, legs[1].Leverage)
	assert.InDelta(t, 4375, legs[1].StopLoss, 1e-9)
}

func TestTradeMatrixBuilder_NeutralOmitsLeg(t *testing.T) {
	t.Parallel()

	zone := Zone{SupportLow: 90, SupportHigh: 95, ResistanceLow: 105, ResistanceHigh: 110}
	assert.Empty(t, BuildTradeMatrix(100, zone, SentimentScore{ShortTerm: Neutral, LongTerm: Neutral}, DefaultConfig()))

	legs := BuildTradeMatrix(100, zone, SentimentScore{ShortTerm: Neutral, LongTerm: 0.9}, DefaultConfig())
	require.Len(t, legs, 1)
	assert.Equal(t, HorizonSwing, legs[0].Horizon)
}

func TestTradeMatrixBuilder_RiskRewardHolds(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.RiskReward = 3.5
	cfg.Swing.MaxRiskFraction = 0.01

	for _, entry := range []float64{0.00042, 1.37, 97.5, 4305, 61234.5} {
		for _, zone := range []Zone{
			{SupportLow: entry * 0.995, SupportHigh: entry * 0.997, ResistanceLow: entry * 1.003, ResistanceHigh: entry * 1.004},
			{SupportLow: entry * 0.5, SupportHigh: entry * 0.6, ResistanceLow: entry * 1.5, ResistanceHigh: entry * 1.6},
		} {
			for _, s := range []SentimentScore{{ShortTerm: 0.9, LongTerm: 0.1}, {ShortTerm: 0.1, LongTerm: 0.9}} {
				for _, leg := range BuildTradeMatrix(entry, zone, s, cfg) {
					realized := (leg.TakeProfit - leg.Entry) / (leg.Entry - leg.StopLoss)
					if leg.Action == ActionSell {
						realized = (leg.Entry - leg.TakeProfit) / (leg.StopLoss - leg.Entry)
					}
					assert.InDelta(t, 3.5, realized, 1e-6)
					assert.InDelta(t, 3.5, leg.RiskReward, 1e-6)
				}
			}
		}
	}
}
