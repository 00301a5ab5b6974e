package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StorefrontMetrics records cart, checkout and HTTP activity.
type StorefrontMetrics struct {
	requestDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	paymentOutcomes *prometheus.CounterVec
	ordersRecorded  prometheus.Counter
	orderValue      prometheus.Histogram
	breakerState    *prometheus.GaugeVec
	purged          prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by status code.",
	}, []string{"method", "route", "status"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	paymentOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_outcomes_total",
		Help: "Checkout payment attempts by outcome.",
	}, []string{"outcome"})
	ordersRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_recorded_total",
		Help: "Orders appended to shopper order logs.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_value_inr",
		Help:    "Order totals in rupees.",
		Buckets: []float64{500, 1000, 2500, 5000, 10000, 25000, 50000},
	})
	breakerState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storage_breaker_state",
		Help: "Storage circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"name"})
	purged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storage_entries_purged_total",
		Help: "Expired storage entries removed by the janitor.",
	})
	reg.MustRegister(requestDuration, requests, cartMutations, paymentOutcomes, ordersRecorded, orderValue, breakerState, purged)
	return &StorefrontMetrics{
		requestDuration: requestDuration,
		requests:        requests,
		cartMutations:   cartMutations,
		paymentOutcomes: paymentOutcomes,
		ordersRecorded:  ordersRecorded,
		orderValue:      orderValue,
		breakerState:    breakerState,
		purged:          purged,
	}
}

// ObserveRequest records one served HTTP request.
func (m *StorefrontMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// IncCartMutation counts a cart operation such as add, remove, set_quantity or clear.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPaymentOutcome counts a checkout outcome.
func (m *StorefrontMetrics) IncPaymentOutcome(outcome string) {
	if m == nil || m.paymentOutcomes == nil {
		return
	}
	m.paymentOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveOrder counts a recorded order and its total.
func (m *StorefrontMetrics) ObserveOrder(total float64) {
	if m == nil || m.ordersRecorded == nil {
		return
	}
	m.ordersRecorded.Inc()
	m.orderValue.Observe(total)
}

// SetBreakerState publishes the numeric state of a named circuit breaker.
func (m *StorefrontMetrics) SetBreakerState(name string, state int) {
	if m == nil || m.breakerState == nil {
		return
	}
	m.breakerState.WithLabelValues(normalizeLabel(name)).Set(float64(state))
}

// AddPurged counts expired entries removed from SQL storage.
func (m *StorefrontMetrics) AddPurged(n int64) {
	if m == nil || m.purged == nil || n <= 0 {
		return
	}
	m.purged.Add(float64(n))
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
