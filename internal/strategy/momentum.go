package strategy

import (
	"fmt"
	"math"

	"fx-signal-bot/internal/ta"
	"fx-signal-bot/internal/types"
)

// Momentum signals in the direction of the last move when it clears a
// minimum size; anything smaller is noise and produces nothing.
type Momentum struct {
	minMove float64
}

func NewMomentum(minMove float64) *Momentum {
	if minMove <= 0 {
		minMove = 0.00015
	}
	return &Momentum{minMove: minMove}
}

func (s *Momentum) Name() string { return "Momentum" }

func (s *Momentum) Evaluate(series []float64) *Decision {
	if len(series) < 2 {
		return nil
	}
	latest := series[len(series)-1]
	prev := series[len(series)-2]
	move := latest - prev

	var dir types.Direction
	switch ta.MicroTrend(latest, prev, s.minMove) {
	case types.Up:
		dir = types.Buy
	case types.Down:
		dir = types.Sell
	default:
		return nil
	}
	return &Decision{
		Direction:  dir,
		Confidence: clamp01(math.Abs(move) / (2 * s.minMove)),
		Reason:     fmt.Sprintf("move %.5f over min %.5f", move, s.minMove),
		RSI:        math.NaN(),
	}
}
