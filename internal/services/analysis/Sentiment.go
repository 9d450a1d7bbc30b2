package analysis

import (
	"math"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/services/indicators"
)

const Neutral = 0.5

var (
	ShortTermFrames = []string{models.TimeFrame15m, models.TimeFrame1h}
	LongTermFrames  = []string{models.TimeFrame4h, models.TimeFrame1d}
)

// SentimentScore holds the bounded [0,1] bias of both horizons, 0 being
// fully bearish and 1 fully bullish. The frame counts record how many
// timeframes fed each bucket; zero means the bucket defaulted to Neutral.
type SentimentScore struct {
	ShortTerm       float64 `json:"short_term"`
	LongTerm        float64 `json:"long_term"`
	ShortTermFrames int     `json:"short_term_frames"`
	LongTermFrames  int     `json:"long_term_frames"`
}

type SentimentScorer struct {
	weights Weights
}

func NewSentimentScorer(weights Weights) *SentimentScorer {
	return &SentimentScorer{weights: weights}
}

// ScoreSentiment runs a SentimentScorer built from cfg.
func ScoreSentiment(sets map[string]*indicators.IndicatorSet, cfg Config) SentimentScore {
	return NewSentimentScorer(cfg.Weights).Score(sets)
}

func (s *SentimentScorer) Score(sets map[string]*indicators.IndicatorSet) SentimentScore {
	short, shortN := s.bucket(sets, ShortTermFrames)
	long, longN := s.bucket(sets, LongTermFrames)
	return SentimentScore{
		ShortTerm:       short,
		LongTerm:        long,
		ShortTermFrames: shortN,
		LongTermFrames:  longN,
	}
}

// TimeframeScore combines one timeframe's RSI, histogram sign and OBV slope
// sign into [0,1].
func (s *SentimentScorer) TimeframeScore(set *indicators.IndicatorSet) float64 {
	score := s.weights.RSI*(set.RSI/100) +
		s.weights.MACD*signScore(set.Histogram) +
		s.weights.OBV*signScore(set.OBVSlope)
	return clampUnit(score)
}

func (s *SentimentScorer) bucket(sets map[string]*indicators.IndicatorSet, frames []string) (float64, int) {
	var sum float64
	n := 0
	for _, tf := range frames {
		set, ok := sets[tf]
		if !ok || set == nil {
			continue
		}
		sum += s.TimeframeScore(set)
		n++
	}
	if n == 0 {
		return Neutral, 0
	}
	return clampUnit(sum / float64(n)), n
}

// Bias labels a score.
func Bias(score float64) string {
	switch {
	case score > Neutral:
		return "Bullish"
	case score < Neutral:
		return "Bearish"
	default:
		return "Neutral"
	}
}

func signScore(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return 0
	default:
		return 0.5
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
