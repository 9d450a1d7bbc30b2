package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUsableData means no timeframe had enough candles to analyse.
	ErrNoUsableData = errors.New("no timeframe has enough data")
	// ErrInvalidRequest means the report request itself is malformed.
	ErrInvalidRequest = errors.New("invalid report request")
)

// ConfigurationError reports an invalid constant. It is fatal and raised
// before any computation starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}
