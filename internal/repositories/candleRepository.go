package repositories

import (
	"context"
	"errors"
	"time"

	"CryptoReportBot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandleRepository struct {
	db *gorm.DB
}

// NewCandleRepository creates a new instance of CandleRepository
func NewCandleRepository(db *gorm.DB) *CandleRepository {
	return &CandleRepository{db: db}
}

// Migrate creates or updates the candles table
func (r *CandleRepository) Migrate() error {
	return r.db.AutoMigrate(&models.Candle{})
}

// Upsert stores candles keyed by symbol, timeframe and open time. A
// candle that is still forming is overwritten by later versions of itself.
func (r *CandleRepository) Upsert(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "time_frame"}, {Name: "open_time"}},
		DoUpdates: clause.AssignmentColumns([]string{"close_time", "open", "high", "low", "close", "volume", "trade_count"}),
	}).Create(&candles).Error
}

// Latest returns up to limit of the most recent candles in ascending
// open time order.
func (r *CandleRepository) Latest(ctx context.Context, symbol, timeFrame string, limit int) ([]models.Candle, error) {
	if symbol == "" || timeFrame == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}

	var candles []models.Candle
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND time_frame = ?", symbol, timeFrame).
		Order("open_time DESC").
		Limit(limit).
		Find(&candles).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

// Prune deletes candles opened before cutoff and returns how many went.
// The newest keep candles of every symbol and timeframe survive
// regardless of cutoff, so a daily series stays long enough to analyse.
func (r *CandleRepository) Prune(ctx context.Context, cutoff time.Time, keep int) (int64, error) {
	db := r.db.WithContext(ctx)

	var series []struct {
		Symbol    string
		TimeFrame string
	}
	if err := db.Model(&models.Candle{}).Distinct("symbol", "time_frame").Find(&series).Error; err != nil {
		return 0, err
	}

	var removed int64
	for _, s := range series {
		bound := cutoff
		if keep > 0 {
			var kept []models.Candle
			err := db.Where("symbol = ? AND time_frame = ?", s.Symbol, s.TimeFrame).
				Order("open_time DESC").
				Offset(keep - 1).
				Limit(1).
				Find(&kept).Error
			if err != nil {
				return removed, err
			}
			if len(kept) == 0 {
				continue
			}
			if kept[0].OpenTime.Before(bound) {
				bound = kept[0].OpenTime
			}
		}

		res := db.Where("symbol = ? AND time_frame = ? AND open_time < ?", s.Symbol, s.TimeFrame, bound).
			Delete(&models.Candle{})
		if res.Error != nil {
			return removed, res.Error
		}
		removed += res.RowsAffected
	}
	return removed, nil
}
