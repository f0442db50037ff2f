package ta

import (
	"math"

	"fx-signal-bot/internal/types"
)

// Indicator functions return math.NaN() when the input series is too
// short to define the value. Callers test with math.IsNaN and skip.

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// RSI over the most recent `period` close-to-close deltas. Undefined when
// the series has fewer than period+1 points, or when the average gain or
// average loss is zero (flat or one-sided window; avoids a divide by zero
// and is deliberately treated as "no reading", not as 0 or 100).
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if gain == 0 || loss == 0 {
		return math.NaN()
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// ATR simplified to the mean absolute close-to-close change over the most
// recent `period` deltas. Close-only data is all the FX endpoints provide,
// so the conventional high/low/close true range is intentionally not used.
func ATR(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += math.Abs(closes[i] - closes[i-1])
	}
	return sum / float64(period)
}

// MicroTrend calls a direction only when the move between two consecutive
// observations is at least minMove; anything smaller is Flat.
func MicroTrend(latest, previous, minMove float64) types.Trend {
	switch {
	case latest-previous >= minMove:
		return types.Up
	case previous-latest >= minMove:
		return types.Down
	default:
		return types.Flat
	}
}

// RoundToTick rounds x to the nearest multiple of tick, half away from
// zero. Repeated computation from the same inputs must stay byte-stable
// in persisted state, so every tp/sl derivation goes through here.
func RoundToTick(x, tick float64) float64 {
	if tick <= 0 {
		return x
	}
	return math.Round(x/tick) * tick
}
