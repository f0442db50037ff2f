package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_opened_total", Help: "Signals opened"},
		[]string{"pair", "direction"},
	)
	SignalsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_resolved_total", Help: "Signals resolved by outcome"},
		[]string{"pair", "outcome"},
	)
	OpenSignals = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "open_signals", Help: "Currently open signals"},
	)
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "price_fetch_errors_total", Help: "Price data fetch failures"},
		[]string{"op"},
	)
	NotifyErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "notify_errors_total", Help: "Notification delivery failures"},
	)
	TicksSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_skipped_total", Help: "Evaluation ticks skipped because the prior run was still busy"},
		[]string{"task"},
	)
)

func init() {
	prometheus.MustRegister(SignalsOpened, SignalsResolved, OpenSignals, FetchErrors, NotifyErrors, TicksSkipped)
}

// Handler exposes the registry for the web surface to mount.
func Handler() http.Handler {
	return promhttp.Handler()
}
