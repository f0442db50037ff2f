// Package strategy holds the open-decision rules. The engine's
// orchestration stays fixed while the direction rule varies by
// configuration.
package strategy

import (
	"strings"

	"fx-signal-bot/internal/types"
)

// Decision is a strategy's verdict on a price series. A nil Decision
// means no signal.
type Decision struct {
	Direction  types.Direction
	Confidence float64 // 0..1
	Reason     string
	// RSI carries the triggering oscillator value when the rule used
	// one, NaN otherwise. Shown in the signal message.
	RSI float64
}

// Strategy evaluates a chronological close-price series.
type Strategy interface {
	Name() string
	Evaluate(series []float64) *Decision
}

// Params expresses the tunable knobs required by strategy constructors.
type Params struct {
	RSIPeriod    int
	RSIBuyBelow  float64
	RSISellAbove float64
	MinMove      float64
}

// Build returns the strategy implementation matching the configured mode.
func Build(mode string, p Params) Strategy {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case "MOMENTUM":
		return NewMomentum(p.MinMove)
	case "CANDLE":
		return NewCandleDirection()
	default:
		return NewRsiAtr(p.RSIPeriod, p.RSIBuyBelow, p.RSISellAbove)
	}
}
