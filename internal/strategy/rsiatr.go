package strategy

import (
	"fmt"
	"math"

	"fx-signal-bot/internal/ta"
	"fx-signal-bot/internal/types"
)

// RsiAtr signals against RSI extremes: oversold means buy, overbought
// means sell, and the [buyBelow, sellAbove] band in between is a
// deliberate no-trade zone.
type RsiAtr struct {
	period    int
	buyBelow  float64
	sellAbove float64
}

func NewRsiAtr(period int, buyBelow, sellAbove float64) *RsiAtr {
	if period <= 0 {
		period = 14
	}
	if buyBelow <= 0 {
		buyBelow = 30
	}
	if sellAbove <= 0 {
		sellAbove = 70
	}
	return &RsiAtr{period: period, buyBelow: buyBelow, sellAbove: sellAbove}
}

func (s *RsiAtr) Name() string { return "RsiAtr" }

func (s *RsiAtr) Evaluate(series []float64) *Decision {
	rsi := ta.RSI(series, s.period)
	if math.IsNaN(rsi) {
		return nil
	}
	switch {
	case rsi < s.buyBelow:
		return &Decision{
			Direction:  types.Buy,
			Confidence: clamp01((s.buyBelow - rsi) / s.buyBelow),
			Reason:     fmt.Sprintf("RSI %.1f oversold", rsi),
			RSI:        rsi,
		}
	case rsi > s.sellAbove:
		return &Decision{
			Direction:  types.Sell,
			Confidence: clamp01((rsi - s.sellAbove) / (100 - s.sellAbove)),
			Reason:     fmt.Sprintf("RSI %.1f overbought", rsi),
			RSI:        rsi,
		}
	default:
		return nil
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
