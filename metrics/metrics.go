package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsidiv_signals_total",
			Help: "Trading signals emitted by kind.",
		},
		[]string{"signal"},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsidiv_orders_submitted_total",
			Help: "Market orders submitted to the exchange, by side.",
		},
		[]string{"side"},
	)

	TradesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsidiv_trades_closed_total",
			Help: "Closed trades by outcome (win or loss).",
		},
		[]string{"outcome"},
	)

	PositionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rsidiv_positions_open",
			Help: "Current number of open positions.",
		},
	)

	RealizedPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rsidiv_realized_pnl",
			Help: "Cumulative realized PnL since engine start.",
		},
	)

	Balance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rsidiv_balance",
			Help: "Available balance as reported by the exchange.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SignalsEmitted, OrdersSubmitted, TradesClosed,
		PositionsOpen, RealizedPnL, Balance,
	)
}

// Serve exposes /metrics on addr in a background goroutine and returns the
// server so the caller can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
