package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bookings        *prometheus.CounterVec
	paymentAmount   prometheus.Counter
}

// New registers the collectors together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evcharge_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evcharge_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evcharge_bookings_total",
			Help: "Booking lifecycle events.",
		}, []string{"event"}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evcharge_payment_amount_total",
			Help: "Sum of captured booking payments.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.bookings,
		m.paymentAmount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// BookingEvent counts a booking lifecycle event.
func (m *Metrics) BookingEvent(event string) {
	m.bookings.WithLabelValues(event).Inc()
}

// PaymentCaptured adds a captured amount. Negative amounts from inverted windows are
// skipped since counters only increase.
func (m *Metrics) PaymentCaptured(amount float64) {
	if amount <= 0 {
		return
	}
	m.paymentAmount.Add(amount)
}
