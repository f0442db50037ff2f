package types

import "time"

// Direction is the side of a signal.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Sign returns +1 for BUY and -1 for SELL, used when projecting
// take-profit/stop-loss distances from the entry price.
func (d Direction) Sign() float64 {
	if d == Sell {
		return -1
	}
	return 1
}

// Outcome classifies a resolved signal.
type Outcome string

const (
	Won     Outcome = "WON"
	Lost    Outcome = "LOST"
	Tie     Outcome = "TIE"
	Pending Outcome = "PENDING"
)

// Trend is a coarse classification of the latest price move.
type Trend int

const (
	Flat Trend = iota
	Up
	Down
)

func (t Trend) String() string {
	switch t {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	}
	return "FLAT"
}

// Signal is one open trade idea. Immutable once opened; the close path
// removes it from the store rather than mutating it. JSON keys match the
// signals.json layout consumed by existing tooling.
type Signal struct {
	ID         string    `json:"id"`
	Pair       string    `json:"pair"`
	Direction  Direction `json:"direction"`
	Entry      float64   `json:"entry"`
	TakeProfit float64   `json:"tp"`
	StopLoss   float64   `json:"sl"`
	CreatedAt  time.Time `json:"created_at"`
	// MessageID is the notification handle returned by the sink at open
	// time; the result message is threaded to it as a reply.
	MessageID string `json:"message_id"`
}

// IndicatorSnapshot holds the per-evaluation derived values.
// RSI and ATR are NaN when the series is too short to define them.
type IndicatorSnapshot struct {
	Latest float64
	RSI    float64
	ATR    float64
}
