package analysis

import (
	"fmt"
	"math"
	"sort"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/services/indicators"
)

// zoneSources lists the timeframes zones are taken from, highest first.
var zoneSources = []string{
	models.TimeFrame1d,
	models.TimeFrame4h,
	models.TimeFrame1h,
	models.TimeFrame15m,
}

// Zone is a support band below and a resistance band above price. When
// the two overlap they are collapsed around the anchor close and
// Compressed is set.
type Zone struct {
	SupportLow     float64 `json:"support_low"`
	SupportHigh    float64 `json:"support_high"`
	ResistanceLow  float64 `json:"resistance_low"`
	ResistanceHigh float64 `json:"resistance_high"`
	Source         string  `json:"source"`
	Compressed     bool    `json:"compressed"`
}

type ZoneDetector struct {
	cfg ZoneConfig
}

func NewZoneDetector(cfg ZoneConfig) *ZoneDetector {
	return &ZoneDetector{cfg: cfg}
}

// DetectZone runs a ZoneDetector built from cfg.
func DetectZone(series map[string][]models.Candle, anchorClose float64, cfg Config) (Zone, error) {
	return NewZoneDetector(cfg.Zone).Detect(series, anchorClose)
}

func (d *ZoneDetector) Detect(series map[string][]models.Candle, anchorClose float64) (Zone, error) {
	source, candles, err := d.pickSource(series)
	if err != nil {
		return Zone{}, err
	}

	window := candles
	if len(window) > d.cfg.Lookback {
		window = window[len(window)-d.cfg.Lookback:]
	}

	lows, highs := d.swingPoints(window)
	if len(lows) == 0 {
		lows = []float64{windowLow(window)}
	}
	if len(highs) == 0 {
		highs = []float64{windowHigh(window)}
	}

	support := d.pickCluster(lows, anchorClose, true)
	resistance := d.pickCluster(highs, anchorClose, false)

	zone := Zone{
		SupportLow:     support.low,
		SupportHigh:    support.high,
		ResistanceLow:  resistance.low,
		ResistanceHigh: resistance.high,
		Source:         source,
	}
	if zone.SupportHigh > zone.ResistanceLow {
		return d.compressed(anchorClose, source), nil
	}
	return zone, nil
}

func (d *ZoneDetector) minCandles() int {
	return 2*d.cfg.SwingStrength + 1
}

func (d *ZoneDetector) pickSource(series map[string][]models.Candle) (string, []models.Candle, error) {
	best := ""
	have := 0
	for _, tf := range zoneSources {
		candles := series[tf]
		if len(candles) >= d.minCandles() {
			return tf, candles, nil
		}
		if len(candles) > have {
			best, have = tf, len(candles)
		}
	}
	return "", nil, fmt.Errorf("zone detection: %w", &indicators.InsufficientDataError{
		Timeframe: best,
		Have:      have,
		Need:      d.minCandles(),
	})
}

// swingPoints returns the lows and highs that are extreme against
// SwingStrength neighbours on each side.
func (d *ZoneDetector) swingPoints(window []models.Candle) (lows, highs []float64) {
	k := d.cfg.SwingStrength
	for i := k; i < len(window)-k; i++ {
		isLow, isHigh := true, true
		for j := i - k; j <= i+k; j++ {
			if j == i {
				continue
			}
			if window[j].Low < window[i].Low {
				isLow = false
			}
			if window[j].High > window[i].High {
				isHigh = false
			}
		}
		if isLow {
			lows = append(lows, window[i].Low)
		}
		if isHigh {
			highs = append(highs, window[i].High)
		}
	}
	return lows, highs
}

type cluster struct {
	low, high float64
	touches   int
}

func (c cluster) mid() float64 {
	return (c.low + c.high) / 2
}

// pickCluster keeps the levels within Tolerance of the extreme, splits
// them on gaps wider than ClusterGap and returns the cluster nearest to
// price.
func (d *ZoneDetector) pickCluster(levels []float64, anchorClose float64, support bool) cluster {
	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	var candidates []float64
	if support {
		limit := sorted[0] * (1 + d.cfg.Tolerance)
		for _, v := range sorted {
			if v <= limit {
				candidates = append(candidates, v)
			}
		}
	} else {
		limit := sorted[len(sorted)-1] * (1 - d.cfg.Tolerance)
		for _, v := range sorted {
			if v >= limit {
				candidates = append(candidates, v)
			}
		}
	}

	clusters := []cluster{{low: candidates[0], high: candidates[0], touches: 1}}
	for _, v := range candidates[1:] {
		last := &clusters[len(clusters)-1]
		if v-last.high > last.high*d.cfg.ClusterGap {
			clusters = append(clusters, cluster{low: v, high: v, touches: 1})
			continue
		}
		last.high = v
		last.touches++
	}

	best := clusters[0]
	for _, c := range clusters[1:] {
		if closerCluster(c, best, anchorClose) {
			best = c
		}
	}
	return best
}

// closerCluster orders clusters by distance to price, then touches, then
// lower price. Clusters arrive in ascending price order so a full tie
// keeps the earlier one.
func closerCluster(c, best cluster, anchorClose float64) bool {
	dc := math.Abs(c.mid() - anchorClose)
	db := math.Abs(best.mid() - anchorClose)
	if dc != db {
		return dc < db
	}
	return c.touches > best.touches
}

func (d *ZoneDetector) compressed(anchorClose float64, source string) Zone {
	hw := anchorClose * d.cfg.CompressedBandFraction
	return Zone{
		SupportLow:     anchorClose - hw,
		SupportHigh:    anchorClose + hw,
		ResistanceLow:  anchorClose - hw,
		ResistanceHigh: anchorClose + hw,
		Source:         source,
		Compressed:     true,
	}
}

func windowLow(candles []models.Candle) float64 {
	low := candles[0].Low
	for _, c := range candles[1:] {
		low = math.Min(low, c.Low)
	}
	return low
}

func windowHigh(candles []models.Candle) float64 {
	high := candles[0].High
	for _, c := range candles[1:] {
		high = math.Max(high, c.High)
	}
	return high
}
