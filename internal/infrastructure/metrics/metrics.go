package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics holds counters for inbound payment notifications.
// All methods are safe on a nil receiver.
type PaymentMetrics struct {
	// Notifications by final outcome (applied, already_applied, stale, ...)
	NotificationsTotal *prometheus.CounterVec

	// Reconcile transaction duration
	ReconcileDuration *prometheus.HistogramVec

	// Replay cache lookups
	ReplayChecksTotal *prometheus.CounterVec

	// Tampering / data corruption alerts
	AlertsTotal *prometheus.CounterVec

	// Paid volume in minor units (fen)
	PaidAmountMinorTotal *prometheus.CounterVec
}

// NewPaymentMetrics registers the metrics on reg. A nil reg falls back to
// the default registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PaymentMetrics{
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_notifications_total",
				Help: "Payment notifications received, by outcome",
			},
			[]string{"outcome"},
		),

		ReconcileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_reconcile_duration_seconds",
				Help:    "Time spent reconciling a notification against its order",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"result"},
		),

		ReplayChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_replay_checks_total",
				Help: "Replay cache checks, by status",
			},
			[]string{"status"},
		),

		AlertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_alerts_total",
				Help: "Payment alerts raised, by kind",
			},
			[]string{"kind"},
		),

		PaidAmountMinorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_paid_amount_minor_total",
				Help: "Total paid amount in minor currency units",
			},
			[]string{"payment_method"},
		),
	}
}

func (m *PaymentMetrics) RecordNotification(outcome string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *PaymentMetrics) ObserveReconcile(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ReconcileDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *PaymentMetrics) RecordReplayCheck(status string) {
	if m == nil {
		return
	}
	m.ReplayChecksTotal.WithLabelValues(status).Inc()
}

func (m *PaymentMetrics) RecordAlert(kind string) {
	if m == nil {
		return
	}
	m.AlertsTotal.WithLabelValues(kind).Inc()
}

func (m *PaymentMetrics) RecordPaid(paymentMethod string, amountMinor int64) {
	if m == nil || amountMinor <= 0 {
		return
	}
	m.PaidAmountMinorTotal.WithLabelValues(paymentMethod).Add(float64(amountMinor))
}
