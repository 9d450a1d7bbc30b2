package analysis

import (
	"errors"
	"fmt"
	"math"

	"CryptoReportBot/internal/services/indicators"

	"github.com/go-playground/validator/v10"
)

// HorizonConfig holds the fixed risk settings of one trading horizon.
type HorizonConfig struct {
	Leverage        int     `mapstructure:"leverage" yaml:"leverage" validate:"gte=1,lte=125"`
	MaxRiskFraction float64 `mapstructure:"max_risk_fraction" yaml:"max_risk_fraction" validate:"gt=0,lte=0.02"`
}

// Weights combine the normalised indicator readings into a sentiment score.
type Weights struct {
	RSI  float64 `mapstructure:"rsi" yaml:"rsi" validate:"gte=0,lte=1"`
	MACD float64 `mapstructure:"macd" yaml:"macd" validate:"gte=0,lte=1"`
	OBV  float64 `mapstructure:"obv" yaml:"obv" validate:"gte=0,lte=1"`
}

// ZoneConfig tunes support/resistance detection. Tolerances are fractions
// of price.
type ZoneConfig struct {
	Lookback               int     `mapstructure:"lookback" yaml:"lookback" validate:"gte=3"`
	SwingStrength          int     `mapstructure:"swing_strength" yaml:"swing_strength" validate:"gte=1"`
	Tolerance              float64 `mapstructure:"tolerance" yaml:"tolerance" validate:"gte=0,lt=1"`
	ClusterGap             float64 `mapstructure:"cluster_gap" yaml:"cluster_gap" validate:"gte=0,lt=1"`
	CompressedBandFraction float64 `mapstructure:"compressed_band_fraction" yaml:"compressed_band_fraction" validate:"gt=0,lt=1"`
}

// Config is the immutable set of constants a report is generated with.
type Config struct {
	Indicators indicators.Params `mapstructure:"indicators" yaml:"indicators"`
	Zone       ZoneConfig        `mapstructure:"zone" yaml:"zone"`
	Weights    Weights           `mapstructure:"weights" yaml:"weights"`
	RiskReward float64           `mapstructure:"risk_reward" yaml:"risk_reward" validate:"gt=0,lte=10"`
	Intraday   HorizonConfig     `mapstructure:"intraday" yaml:"intraday"`
	Swing      HorizonConfig     `mapstructure:"swing" yaml:"swing"`
}

func DefaultConfig() Config {
	return Config{
		Indicators: indicators.DefaultParams(),
		Zone: ZoneConfig{
			Lookback:               50,
			SwingStrength:          2,
			Tolerance:              0.015,
			ClusterGap:             0.003,
			CompressedBandFraction: 0.0025,
		},
		Weights: Weights{
			RSI:  0.4,
			MACD: 0.4,
			OBV:  0.2,
		},
		RiskReward: 2.0,
		Intraday: HorizonConfig{
			Leverage:        5,
			MaxRiskFraction: 0.02,
		},
		Swing: HorizonConfig{
			Leverage:        3,
			MaxRiskFraction: 0.02,
		},
	}
}

var validate = validator.New()

// Validate reports the first invalid constant as a *ConfigurationError.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			reason := fe.Tag()
			if fe.Param() != "" {
				reason += "=" + fe.Param()
			}
			return &ConfigurationError{Field: fe.Namespace(), Reason: fmt.Sprintf("failed %s (got %v)", reason, fe.Value())}
		}
		return &ConfigurationError{Field: "Config", Reason: err.Error()}
	}

	sum := c.Weights.RSI + c.Weights.MACD + c.Weights.OBV
	if math.Abs(sum-1) > 1e-9 {
		return &ConfigurationError{Field: "Config.Weights", Reason: fmt.Sprintf("must sum to 1 (got %.4f)", sum)}
	}

	if minWindow := 2*c.Zone.SwingStrength + 1; c.Zone.Lookback < minWindow {
		return &ConfigurationError{Field: "Config.Zone.Lookback", Reason: fmt.Sprintf("must be at least %d for swing strength %d", minWindow, c.Zone.SwingStrength)}
	}

	return nil
}
