package nutrition

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount is returned for water amounts that are not positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// WaterLog maps a local date key (YYYY-MM-DD) to cumulative millilitres.
type WaterLog map[string]float64

// Add records ml for dateKey and returns the new day total. Logging is
// additive only, so a day's total never decreases.
func (w WaterLog) Add(dateKey string, ml float64) (float64, error) {
	if !(ml > 0) {
		return 0, fmt.Errorf("log water %v ml: %w", ml, ErrInvalidAmount)
	}
	w[dateKey] += ml
	return w[dateKey], nil
}

// On returns the total logged for dateKey, zero if nothing was logged.
func (w WaterLog) On(dateKey string) float64 {
	return w[dateKey]
}

// Clone returns an independent copy.
func (w WaterLog) Clone() WaterLog {
	out := make(WaterLog, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
