package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records outcomes for order confirmation and billing flows.
type OrderMetrics struct {
	confirmDuration *prometheus.HistogramVec
	confirmations   *prometheus.CounterVec
	stockRejections prometheus.Counter
	invoicesIssued  prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	confirmDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_confirm_duration_seconds",
		Help:    "Duration of order confirmation requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	confirmations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_confirmations",
		Help: "Order confirmation attempts by outcome.",
	}, []string{"outcome"})
	stockRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_stock_rejections",
		Help: "Confirmations rejected for insufficient stock.",
	})
	invoicesIssued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoices_issued",
		Help: "Invoices issued for closed orders.",
	})
	reg.MustRegister(confirmDuration, confirmations, stockRejections, invoicesIssued)
	return &OrderMetrics{
		confirmDuration: confirmDuration,
		confirmations:   confirmations,
		stockRejections: stockRejections,
		invoicesIssued:  invoicesIssued,
	}
}

// ObserveConfirmation records the duration and outcome of a confirmation attempt.
func (m *OrderMetrics) ObserveConfirmation(outcome string, duration time.Duration) {
	if m == nil || m.confirmDuration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.confirmDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.confirmations.WithLabelValues(label).Inc()
}

// IncStockRejection increments the insufficient stock counter.
func (m *OrderMetrics) IncStockRejection() {
	if m == nil || m.stockRejections == nil {
		return
	}
	m.stockRejections.Inc()
}

// IncInvoiceIssued increments the issued invoice counter.
func (m *OrderMetrics) IncInvoiceIssued() {
	if m == nil || m.invoicesIssued == nil {
		return
	}
	m.invoicesIssued.Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
