package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pxltravel"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_submitted_total",
			Help:      "Booking requests that reached the submitted stage.",
		},
	)

	bookingFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_stage_failures_total",
			Help:      "Booking submissions rejected, by the stage that failed.",
		},
		[]string{"stage"},
	)

	bookingsReviewed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_reviewed_total",
			Help:      "Booking reviews by resulting status.",
		},
		[]string{"status"},
	)

	inventoryCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_created_total",
			Help:      "Inventory records created, by variant.",
		},
		[]string{"variant"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsSubmitted, bookingFailures, bookingsReviewed, inventoryCreated)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncBookingSubmitted() {
	bookingsSubmitted.Inc()
}

func IncBookingFailure(stage string) {
	bookingFailures.WithLabelValues(stage).Inc()
}

func IncBookingReviewed(status string) {
	bookingsReviewed.WithLabelValues(status).Inc()
}

func IncInventoryCreated(variant string) {
	inventoryCreated.WithLabelValues(variant).Inc()
}
