package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics holds every collector the escrow service exports.
type EscrowMetrics struct {
	OrdersCreatedTotal *prometheus.CounterVec
	EscrowFundedTotal  *prometheus.CounterVec
	EscrowFundedAmount *prometheus.CounterVec

	PayoutAttemptsTotal *prometheus.CounterVec
	PayoutAmountTotal   *prometheus.CounterVec
	PayoutDuration      *prometheus.HistogramVec

	ReleaseBatchesTotal  *prometheus.CounterVec
	ReleaseBatchDuration prometheus.Histogram

	DisputesCreatedTotal   *prometheus.CounterVec
	DisputesEscalatedTotal *prometheus.CounterVec
	DisputeReviewsTotal    *prometheus.CounterVec

	WebhookEventsTotal *prometheus.CounterVec
}

// NewEscrowMetrics registers the collectors on reg, normally the registry
// served on /metrics.
func NewEscrowMetrics(reg prometheus.Registerer) *EscrowMetrics {
	factory := promauto.With(reg)
	return &EscrowMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_orders_created_total",
				Help: "Orders created, by payment method and currency",
			},
			[]string{"payment_method", "currency"},
		),
		EscrowFundedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_funded_total",
				Help: "Orders whose deposit reached escrow",
			},
			[]string{"currency"},
		),
		EscrowFundedAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_funded_amount_total",
				Help: "Deposit amount moved into escrow",
			},
			[]string{"currency"},
		),
		PayoutAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_payout_attempts_total",
				Help: "Payout attempts by method, mode and audit status",
			},
			[]string{"method", "execution_mode", "status", "error_code"},
		),
		PayoutAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_payout_amount_total",
				Help: "Amount released to farmers",
			},
			[]string{"method", "currency"},
		),
		PayoutDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "escrow_payout_duration_seconds",
				Help:    "Time spent in one payout rail call",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"method"},
		),
		ReleaseBatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_release_batches_total",
				Help: "Release batches by trigger",
			},
			[]string{"trigger"},
		),
		ReleaseBatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "escrow_release_batch_duration_seconds",
				Help:    "Wall time of one release batch",
				Buckets: prometheus.DefBuckets,
			},
		),
		DisputesCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_created_total",
				Help: "Disputes created by anomaly type and source",
			},
			[]string{"anomaly_type", "source"},
		),
		DisputesEscalatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_escalated_total",
				Help: "Payout-failure escalations, split by whether a dispute already existed",
			},
			[]string{"existing"},
		),
		DisputeReviewsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_dispute_reviews_total",
				Help: "Admin review actions applied",
			},
			[]string{"action"},
		),
		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_webhook_events_total",
				Help: "Provider webhook events by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}
}

func (m *EscrowMetrics) RecordOrderCreated(method, currency string) {
	m.OrdersCreatedTotal.WithLabelValues(method, currency).Inc()
}

func (m *EscrowMetrics) RecordEscrowFunded(currency string, amount float64) {
	m.EscrowFundedTotal.WithLabelValues(currency).Inc()
	m.EscrowFundedAmount.WithLabelValues(currency).Add(amount)
}

func (m *EscrowMetrics) RecordPayout(method, mode, status, errorCode, currency string, amount float64, took time.Duration) {
	m.PayoutAttemptsTotal.WithLabelValues(method, mode, status, errorCode).Inc()
	m.PayoutDuration.WithLabelValues(method).Observe(took.Seconds())
	if status == "succeeded" || status == "submitted" {
		m.PayoutAmountTotal.WithLabelValues(method, currency).Add(amount)
	}
}

func (m *EscrowMetrics) RecordReleaseBatch(trigger string, took time.Duration) {
	m.ReleaseBatchesTotal.WithLabelValues(trigger).Inc()
	m.ReleaseBatchDuration.Observe(took.Seconds())
}

func (m *EscrowMetrics) RecordDisputeCreated(anomalyType, source string) {
	m.DisputesCreatedTotal.WithLabelValues(anomalyType, source).Inc()
}

func (m *EscrowMetrics) RecordDisputeEscalated(existing bool) {
	label := "false"
	if existing {
		label = "true"
	}
	m.DisputesEscalatedTotal.WithLabelValues(label).Inc()
}

func (m *EscrowMetrics) RecordDisputeReview(action string) {
	m.DisputeReviewsTotal.WithLabelValues(action).Inc()
}

func (m *EscrowMetrics) RecordWebhookEvent(eventType, outcome string) {
	m.WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}
