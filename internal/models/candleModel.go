package models

import (
	"time"
)

// Candle is one OHLCV bar. It is also the row stored in the candles table.
type Candle struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Symbol     string    `gorm:"uniqueIndex:idx_candle_key;not null" json:"symbol"`
	TimeFrame  string    `gorm:"uniqueIndex:idx_candle_key;not null" json:"timeframe"`
	OpenTime   time.Time `gorm:"uniqueIndex:idx_candle_key;not null" json:"open_time"`
	CloseTime  time.Time `gorm:"index" json:"close_time"`
	Open       float64   `gorm:"type:decimal(20,8)" json:"open"`
	High       float64   `gorm:"type:decimal(20,8)" json:"high"`
	Low        float64   `gorm:"type:decimal(20,8)" json:"low"`
	Close      float64   `gorm:"type:decimal(20,8)" json:"close"`
	Volume     float64   `gorm:"type:decimal(20,8)" json:"volume"`
	TradeCount int64     `json:"trade_count"`
}

const (
	TimeFrame15m = "15m"
	TimeFrame1h  = "1h"
	TimeFrame4h  = "4h"
	TimeFrame1d  = "1d"
)

// TimeFrames lists the analysed timeframes from shortest to longest.
var TimeFrames = []string{TimeFrame15m, TimeFrame1h, TimeFrame4h, TimeFrame1d}

// TimeFrameDuration returns the bar length of a timeframe, or 0 if unknown.
func TimeFrameDuration(timeframe string) time.Duration {
	switch timeframe {
	case TimeFrame15m:
		return 15 * time.Minute
	case TimeFrame1h:
		return time.Hour
	case TimeFrame4h:
		return 4 * time.Hour
	case TimeFrame1d:
		return 24 * time.Hour
	}
	return 0
}

// TableName sets the table name for Candle model
func (Candle) TableName() string {
	return "candles"
}

// Closes extracts the close prices of a series.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
