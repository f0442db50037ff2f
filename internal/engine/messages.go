package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"fx-signal-bot/internal/strategy"
	"fx-signal-bot/internal/types"
)

// Message layout mirrors the channel's established format so existing
// readers keep parsing it.

func (e *Engine) formatOpenMessage(pair string, dec *strategy.Decision, entry, tp, sl float64, at time.Time) string {
	dp := e.cfg.Decimals(pair)
	icon := "🟢"
	if dec.Direction == types.Sell {
		icon = "🔴"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s **SIGNAL %s**\n", icon, pair)
	fmt.Fprintf(&b, "⏰ Time: %s\n", at.Format("15:04:05"))
	fmt.Fprintf(&b, "📊 Action: %s\n", dec.Direction)
	fmt.Fprintf(&b, "💰 Entry: ≤ %.*f\n", dp, entry)
	fmt.Fprintf(&b, "🎯 TP: %.*f\n", dp, tp)
	fmt.Fprintf(&b, "❌ SL: %.*f", dp, sl)
	if !math.IsNaN(dec.RSI) {
		fmt.Fprintf(&b, "\n📈 RSI: %.1f", dec.RSI)
	}
	return b.String()
}

func (e *Engine) formatResultMessage(sig types.Signal, latest float64, outcome types.Outcome, at time.Time) string {
	dp := e.cfg.Decimals(sig.Pair)
	label := "⚖️ TIE"
	switch outcome {
	case types.Won:
		label = "✅ WON"
	case types.Lost:
		label = "❌ LOST"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **RESULT %s**\n", sig.Pair)
	fmt.Fprintf(&b, "⏰ Time: %s\n", at.Format("15:04:05"))
	fmt.Fprintf(&b, "📍 Price: %.*f\n", dp, latest)
	b.WriteString(label)
	return b.String()
}
