package metrics

import (
	"context"
	"time"

	awspkg "github.com/caseforge/storefront/pkg/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records webhook fulfillment and checkout activity in Prometheus.
type Metrics struct {
	webhookEventsTotal        *prometheus.CounterVec
	webhookProcessingDuration *prometheus.HistogramVec
	webhookErrorsTotal        *prometheus.CounterVec
	emailsTotal               *prometheus.CounterVec
	checkoutSessionsTotal     *prometheus.CounterVec

	// cloudwatch mirrors business counters when enabled.
	cloudwatch *awspkg.MetricsClient
}

func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		webhookEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fulfillment",
			Name:      "webhook_events_total",
			Help:      "Total number of Stripe webhook deliveries by event type and outcome.",
		}, []string{"event_type", "status"}),

		webhookProcessingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fulfillment",
			Name:      "webhook_processing_duration_seconds",
			Help:      "Duration of webhook processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),

		webhookErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fulfillment",
			Name:      "webhook_errors_total",
			Help:      "Total number of webhook failures by error kind.",
		}, []string{"kind"}),

		emailsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fulfillment",
			Name:      "confirmation_emails_total",
			Help:      "Total number of order confirmation emails by outcome.",
		}, []string{"status"}),

		checkoutSessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "sessions_total",
			Help:      "Total number of checkout session creations by outcome.",
		}, []string{"status"}),
	}
}

// WithCloudWatch mirrors the order, checkout and email counters to CloudWatch.
func (m *Metrics) WithCloudWatch(client *awspkg.MetricsClient) *Metrics {
	m.cloudwatch = client
	return m
}

func (m *Metrics) RecordWebhook(eventType, status string, d time.Duration) {
	if eventType == "" {
		eventType = "unknown"
	}
	m.webhookEventsTotal.WithLabelValues(eventType, status).Inc()
	m.webhookProcessingDuration.WithLabelValues(eventType).Observe(d.Seconds())
	if status == "success" {
		m.countAsync(awspkg.MetricOrdersPaid)
	}
}

func (m *Metrics) RecordWebhookError(kind string) {
	m.webhookErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordEmail(status string) {
	m.emailsTotal.WithLabelValues(status).Inc()
	if status == "sent" {
		m.countAsync(awspkg.MetricConfirmationsSent)
	}
}

func (m *Metrics) RecordCheckout(status string) {
	m.checkoutSessionsTotal.WithLabelValues(status).Inc()
	if status == "created" {
		m.countAsync(awspkg.MetricCheckoutsStarted)
	}
}

func (m *Metrics) countAsync(name string) {
	if !m.cloudwatch.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.cloudwatch.RecordCount(ctx, name, map[string]string{"Service": "storefront-service"})
	}()
}
