package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records gateway-level counters for cart activity and
// checkout outcomes.
type StorefrontMetrics struct {
	requestDuration *prometheus.HistogramVec
	cartMutations   *prometheus.CounterVec
	checkoutOrders  *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of gateway HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and result.",
	}, []string{"op", "result"})
	checkoutOrders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Checkout submissions by result.",
	}, []string{"result"})
	reg.MustRegister(requestDuration, cartMutations, checkoutOrders)
	return &StorefrontMetrics{
		requestDuration: requestDuration,
		cartMutations:   cartMutations,
		checkoutOrders:  checkoutOrders,
	}
}

// ObserveRequest records the duration for a handled request.
func (m *StorefrontMetrics) ObserveRequest(method, path string, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(normalizeLabel(method), normalizeLabel(path)).Observe(duration.Seconds())
}

// IncCartMutation counts one cart mutation attempt.
func (m *StorefrontMetrics) IncCartMutation(op string, accepted bool) {
	if m == nil || m.cartMutations == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "refused"
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op), result).Inc()
}

// IncCheckout counts one checkout submission outcome.
func (m *StorefrontMetrics) IncCheckout(success bool) {
	if m == nil || m.checkoutOrders == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.checkoutOrders.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
