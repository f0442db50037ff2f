package strategy

import (
	"fmt"
	"math"

	"fx-signal-bot/internal/types"
)

// CandleDirection follows the raw direction of the last completed candle:
// any up close signals buy, any down close signals sell. The noisiest of
// the three rules, kept as a configuration variant.
type CandleDirection struct{}

func NewCandleDirection() *CandleDirection { return &CandleDirection{} }

func (s *CandleDirection) Name() string { return "CandleDirection" }

func (s *CandleDirection) Evaluate(series []float64) *Decision {
	if len(series) < 2 {
		return nil
	}
	latest := series[len(series)-1]
	prev := series[len(series)-2]
	if latest == prev {
		return nil
	}
	dir, label := types.Buy, "up"
	if latest < prev {
		dir, label = types.Sell, "down"
	}
	return &Decision{
		Direction:  dir,
		Confidence: 0.5,
		Reason:     fmt.Sprintf("last candle closed %s", label),
		RSI:        math.NaN(),
	}
}
