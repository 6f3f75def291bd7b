package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocalcart_commands_total",
			Help: "Total number of voice commands handled, by resolved action",
		},
		[]string{"action"},
	)

	CommandsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocalcart_command_failures_total",
			Help: "Total number of commands answered with a recoverable failure",
		},
		[]string{"action", "error_category"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocalcart_command_duration_seconds",
			Help:    "Time spent handling one command",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	CatalogSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocalcart_catalog_search_duration_seconds",
			Help:    "Duration of product source searches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source", "outcome"},
	)

	CatalogResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocalcart_catalog_results",
			Help:    "Number of products returned per search",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
		[]string{"source"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vocalcart_sessions_active",
			Help: "Number of sessions held in the registry",
		},
	)

	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocalcart_cart_operations_total",
			Help: "Cart ledger operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Outcome renders a bool as the outcome label value.
func Outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
