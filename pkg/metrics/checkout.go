package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded for a finished payment attempt.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

// CheckoutMetrics records cart and checkout activity.
type CheckoutMetrics struct {
	cartMutations   *prometheus.CounterVec
	attempts        *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	paymentDuration *prometheus.HistogramVec
	ordersPlaced    prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_attempts_total",
		Help: "Payment attempts started by method.",
	}, []string{"method"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_outcomes_total",
		Help: "Resolved payment attempts by method and outcome.",
	}, []string{"method", "outcome"})
	paymentDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_payment_duration_seconds",
		Help:    "Time from pay to resolution of a payment attempt.",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"method"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders appended to the order history.",
	})
	reg.MustRegister(cartMutations, attempts, outcomes, paymentDuration, ordersPlaced)
	return &CheckoutMetrics{
		cartMutations:   cartMutations,
		attempts:        attempts,
		outcomes:        outcomes,
		paymentDuration: paymentDuration,
		ordersPlaced:    ordersPlaced,
	}
}

func (m *CheckoutMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *CheckoutMetrics) IncAttempt(method string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(method)).Inc()
}

// ObserveOutcome counts the outcome and records how long the attempt took.
func (m *CheckoutMetrics) ObserveOutcome(method, outcome string, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
	if elapsed >= 0 {
		m.paymentDuration.WithLabelValues(normalizeLabel(method)).Observe(elapsed.Seconds())
	}
}

func (m *CheckoutMetrics) IncOrdersPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
