package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fuelease"

// Metrics groups the order/payment lifecycle collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	OrdersCreatedTotal        *prometheus.CounterVec
	PaymentInitFailuresTotal  prometheus.Counter
	OrdersConfirmedTotal      *prometheus.CounterVec
	GatewayRequestDuration    *prometheus.HistogramVec
	WebhookNotificationsTotal *prometheus.CounterVec
	HTTPRequestsTotal         *prometheus.CounterVec
	HTTPRequestDuration       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		OrdersCreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders persisted with an initialized payment.",
		}, []string{"fuel_type"}),

		PaymentInitFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_init_failures_total",
			Help:      "Orders removed because payment initialization failed.",
		}),

		OrdersConfirmedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_confirmed_total",
			Help:      "Orders moved to confirmed/successful, by reconciliation path.",
		}, []string{"source"}),

		GatewayRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Latency of payment gateway calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "outcome"}),

		WebhookNotificationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_notifications_total",
			Help:      "Gateway push notifications received, by outcome.",
		}, []string{"provider", "outcome"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) OrderCreated(fuelType string) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(fuelType).Inc()
}

func (m *Metrics) PaymentInitFailed() {
	if m == nil {
		return
	}
	m.PaymentInitFailuresTotal.Inc()
}

func (m *Metrics) OrderConfirmed(source string) {
	if m == nil {
		return
	}
	m.OrdersConfirmedTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveGateway(operation string, ok bool, started time.Time) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}

func (m *Metrics) WebhookReceived(provider, outcome string) {
	if m == nil {
		return
	}
	m.WebhookNotificationsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
