package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type OrderMetrics struct {
	Placements        *prometheus.CounterVec
	PlacementDuration prometheus.Histogram
	StockConflicts    prometheus.Counter
}

func NewOrderMetrics() *OrderMetrics {
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kiosk",
		Subsystem: "orders",
		Name:      "placements_total",
		Help:      "Total number of order placement attempts.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kiosk",
		Subsystem: "orders",
		Name:      "placement_duration_seconds",
		Help:      "Order placement latency in seconds, lock wait included.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kiosk",
		Subsystem: "orders",
		Name:      "stock_conflicts_total",
		Help:      "Total number of placements rejected for insufficient stock.",
	})

	prometheus.MustRegister(placements, duration, conflicts)
	return &OrderMetrics{
		Placements:        placements,
		PlacementDuration: duration,
		StockConflicts:    conflicts,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
