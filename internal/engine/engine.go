// Package engine runs the signal lifecycle: deciding when a new signal
// may be opened for a pair, and resolving open signals against a later
// price observation.
package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"fx-signal-bot/internal/config"
	"fx-signal-bot/internal/feed"
	"fx-signal-bot/internal/history"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/metrics"
	"fx-signal-bot/internal/notify"
	"fx-signal-bot/internal/store"
	"fx-signal-bot/internal/strategy"
	"fx-signal-bot/internal/ta"
	"fx-signal-bot/internal/types"
)

type Engine struct {
	cfg   *config.Config
	feed  feed.PriceSource
	sink  notify.Notifier
	store store.Store
	strat strategy.Strategy
	loc   *time.Location

	// Per-task gates: a tick that finds its task still running is
	// skipped, never queued.
	openGate  sync.Mutex
	closeGate sync.Mutex
}

// Health is the snapshot served by the liveness endpoint.
type Health struct {
	OpenSignals int `json:"open_signals"`
}

func New(cfg *config.Config, src feed.PriceSource, sink notify.Notifier, st store.Store) *Engine {
	return &Engine{
		cfg:   cfg,
		feed:  src,
		sink:  sink,
		store: st,
		strat: strategy.Build(cfg.Strategy.Mode, strategy.Params{
			RSIPeriod:    cfg.Strategy.RSIPeriod,
			RSIBuyBelow:  cfg.Strategy.RSIBuyBelow,
			RSISellAbove: cfg.Strategy.RSISellAbove,
			MinMove:      cfg.Strategy.MinMove,
		}),
		loc: cfg.Location(),
	}
}

func (e *Engine) Health() Health {
	return Health{OpenSignals: e.store.Len()}
}

// EvaluateOpens runs the open-decision path over every configured pair.
// Pairs are evaluated independently: one pair's failure never aborts the
// rest of the batch.
func (e *Engine) EvaluateOpens(ctx context.Context) {
	if !e.openGate.TryLock() {
		metrics.TicksSkipped.WithLabelValues("open").Inc()
		logger.Warn(ctx, "Open evaluation still running, skipping tick")
		return
	}
	defer e.openGate.Unlock()

	ctx, span := logger.StartSpan(ctx, "evaluate_opens")
	defer span.End()

	logger.Info(ctx, "Evaluating open candidates", "pairs", len(e.cfg.Pairs), "strategy", e.strat.Name())
	for _, pair := range e.cfg.Pairs {
		e.evaluateOpen(ctx, pair)
	}
	metrics.OpenSignals.Set(float64(e.store.Len()))
}

func (e *Engine) evaluateOpen(ctx context.Context, pair string) {
	if e.store.IsOpen(pair) {
		logger.Debug(ctx, "Signal already open, skipping", "pair", pair)
		return
	}

	series, err := e.feed.GetSeries(ctx, pair, e.cfg.IntervalMinutes, e.cfg.HistorySize)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("series").Inc()
		logger.Warn(ctx, "Price series unavailable, skipping", "pair", pair, "error", err)
		return
	}
	if len(series) < e.cfg.MinHistory {
		logger.Debug(ctx, "Insufficient history, skipping", "pair", pair, "got", len(series), "need", e.cfg.MinHistory)
		return
	}

	dec := e.strat.Evaluate(series)
	if dec == nil {
		logger.Debug(ctx, "No direction from strategy", "pair", pair)
		return
	}

	atr := ta.ATR(series, e.cfg.Strategy.ATRPeriod)
	if math.IsNaN(atr) {
		logger.Debug(ctx, "ATR undefined, skipping", "pair", pair)
		return
	}
	if atr < e.cfg.MinATR {
		logger.Debug(ctx, "Volatility below floor, skipping", "pair", pair, "atr", atr)
		return
	}

	entry := series[len(series)-1]
	tick := e.cfg.Tick(pair)
	sign := dec.Direction.Sign()
	tp := ta.RoundToTick(entry+atr*e.cfg.TPMultiplier*sign, tick)
	sl := ta.RoundToTick(entry-atr*e.cfg.SLMultiplier*sign, tick)

	createdAt := time.Now().In(e.loc)
	text := e.formatOpenMessage(pair, dec, entry, tp, sl, createdAt)

	// Announce first, persist second: a signal that was never announced
	// must never be recorded.
	handle, err := e.sink.Send(ctx, text)
	if err != nil {
		metrics.NotifyErrors.Inc()
		logger.ErrorWithErr(ctx, "Signal notification failed, not persisting", err, "pair", pair)
		return
	}

	sig := types.Signal{
		ID:         uuid.NewString(),
		Pair:       pair,
		Direction:  dec.Direction,
		Entry:      entry,
		TakeProfit: tp,
		StopLoss:   sl,
		CreatedAt:  createdAt,
		MessageID:  handle,
	}
	if err := e.store.Open(sig); err != nil {
		logger.Warn(ctx, "Could not persist signal", "pair", pair, "error", err)
		return
	}

	metrics.SignalsOpened.WithLabelValues(pair, string(dec.Direction)).Inc()
	logger.Signal(ctx, "signal_opened", pair, string(dec.Direction),
		"id", sig.ID,
		"entry", entry,
		"tp", tp,
		"sl", sl,
		"confidence", dec.Confidence,
		"reason", dec.Reason,
	)
}

// EvaluateCloses runs the close-decision path over every open signal.
func (e *Engine) EvaluateCloses(ctx context.Context) {
	if !e.closeGate.TryLock() {
		metrics.TicksSkipped.WithLabelValues("close").Inc()
		logger.Warn(ctx, "Close evaluation still running, skipping tick")
		return
	}
	defer e.closeGate.Unlock()

	ctx, span := logger.StartSpan(ctx, "evaluate_closes")
	defer span.End()

	for _, sig := range e.store.ListOpen() {
		e.evaluateClose(ctx, sig)
	}
	metrics.OpenSignals.Set(float64(e.store.Len()))
}

func (e *Engine) evaluateClose(ctx context.Context, sig types.Signal) {
	age := time.Since(sig.CreatedAt)
	if age < e.cfg.HoldingPeriod() {
		logger.Debug(ctx, "Holding period not elapsed", "pair", sig.Pair, "age", age)
		return
	}

	latest, err := e.feed.GetLatest(ctx, sig.Pair)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("latest").Inc()
		logger.Warn(ctx, "Latest price unavailable, keeping signal open", "pair", sig.Pair, "error", err)
		return
	}

	outcome := Classify(sig, latest)
	if outcome == types.Pending {
		if e.cfg.TiePolicy == "RETRY" {
			logger.Debug(ctx, "Price between tp and sl, retrying next tick", "pair", sig.Pair, "price", latest)
			return
		}
		outcome = types.Tie
	}

	text := e.formatResultMessage(sig, latest, outcome, time.Now().In(e.loc))
	if err := e.sink.SendReply(ctx, text, sig.MessageID); err != nil {
		// Prefer a signal that lingers over one that silently disappears.
		metrics.NotifyErrors.Inc()
		logger.ErrorWithErr(ctx, "Result notification failed, keeping signal open", err, "pair", sig.Pair)
		return
	}

	if err := e.store.Close(sig.Pair); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Warn(ctx, "Could not remove resolved signal", "pair", sig.Pair, "error", err)
	}

	metrics.SignalsResolved.WithLabelValues(sig.Pair, string(outcome)).Inc()
	if err := history.Append(history.Entry{
		Pair:       sig.Pair,
		Direction:  string(sig.Direction),
		Entry:      sig.Entry,
		Exit:       latest,
		TakeProfit: sig.TakeProfit,
		StopLoss:   sig.StopLoss,
		Outcome:    string(outcome),
	}, e.loc); err != nil {
		logger.Warn(ctx, "Could not append history entry", "pair", sig.Pair, "error", err)
	}
	logger.Signal(ctx, "signal_resolved", sig.Pair, string(sig.Direction),
		"id", sig.ID,
		"outcome", string(outcome),
		"entry", sig.Entry,
		"exit", latest,
	)
}

// Classify resolves a signal against a price observation. Pending means
// the price sits between take-profit and stop-loss; the tie policy
// decides whether that closes the signal or leaves it for the next tick.
func Classify(sig types.Signal, latest float64) types.Outcome {
	switch sig.Direction {
	case types.Buy:
		if latest >= sig.TakeProfit {
			return types.Won
		}
		if latest <= sig.StopLoss {
			return types.Lost
		}
	case types.Sell:
		if latest <= sig.TakeProfit {
			return types.Won
		}
		if latest >= sig.StopLoss {
			return types.Lost
		}
	}
	return types.Pending
}
