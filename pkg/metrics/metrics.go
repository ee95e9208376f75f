// Package metrics exposes Prometheus counters for the exchange core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Metrics struct {
	OrdersPlaced    *prometheus.CounterVec // accepted orders per pair
	OrdersRejected  *prometheus.CounterVec // validation rejections
	OrdersCancelled *prometheus.CounterVec
	Trades          *prometheus.CounterVec // executed trades per pair
	Volume          *prometheus.CounterVec // traded notional per pair, tick-lots
}

// New registers the exchange collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_orders_placed_total",
			Help: "Orders accepted into the matching engine.",
		}, []string{"pair"}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_orders_rejected_total",
			Help: "Orders rejected at validation.",
		}, []string{"pair"}),
		OrdersCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_orders_cancelled_total",
			Help: "Orders cancelled by their owner.",
		}, []string{"pair"}),
		Trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_trades_total",
			Help: "Trades executed.",
		}, []string{"pair"}),
		Volume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_trade_volume_total",
			Help: "Traded notional in tick-lots.",
		}, []string{"pair"}),
	}
	reg.MustRegister(m.OrdersPlaced, m.OrdersRejected, m.OrdersCancelled, m.Trades, m.Volume)
	return m
}

// StartServer serves /metrics on addr in a background goroutine. Listen
// failures (bad addr, port in use) are logged rather than lost.
func StartServer(addr string, g prometheus.Gatherer, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server", zap.String("addr", addr), zap.Error(err))
		}
	}()
}
