// Package metrics exposes Prometheus collectors for the watcher service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cyclesTotal          *prometheus.CounterVec
	cycleDurationSeconds prometheus.Histogram
	notificationsTotal   *prometheus.CounterVec
	itemsAvailable       prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		cyclesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedwatch_cycles_total",
				Help: "Total number of poll cycles, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		cycleDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seedwatch_cycle_duration_seconds",
				Help:    "Histogram of poll cycle durations, render included.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		)

		notificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedwatch_notifications_total",
				Help: "Total notification attempts, labeled by delivery status.",
			},
			[]string{"status"},
		)

		itemsAvailable = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "seedwatch_items_available",
				Help: "Watched items with non-zero stock in the latest snapshot.",
			},
		)
	})
}

// ObserveCycle records one completed poll cycle.
func ObserveCycle(outcome string, d time.Duration) {
	if cyclesTotal == nil {
		return
	}
	cyclesTotal.WithLabelValues(outcome).Inc()
	cycleDurationSeconds.Observe(d.Seconds())
}

// ObserveNotification records one notification attempt.
func ObserveNotification(status string) {
	if notificationsTotal == nil {
		return
	}
	notificationsTotal.WithLabelValues(status).Inc()
}

// SetItemsAvailable publishes the available-item count from the latest
// successful snapshot.
func SetItemsAvailable(n int) {
	if itemsAvailable == nil {
		return
	}
	itemsAvailable.Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
