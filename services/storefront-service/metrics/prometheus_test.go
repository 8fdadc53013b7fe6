package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordWebhook(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "storefront")

	m.RecordWebhook("checkout.session.completed", "success", 20*time.Millisecond)
	m.RecordWebhook("checkout.session.completed", "success", 30*time.Millisecond)
	m.RecordWebhook("", "error", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.webhookEventsTotal.WithLabelValues("checkout.session.completed", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEventsTotal.WithLabelValues("unknown", "error")))
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "storefront")

	m.RecordWebhookError("validation")
	m.RecordEmail("sent")
	m.RecordEmail("failed")
	m.RecordCheckout("created")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookErrorsTotal.WithLabelValues("validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emailsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutSessionsTotal.WithLabelValues("created")))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Greater(t, count, 0)
}

func TestMetrics_DisabledCloudWatchIsSafe(t *testing.T) {
	m := New(prometheus.NewRegistry(), "storefront").WithCloudWatch(nil)

	assert.NotPanics(t, func() {
		m.RecordWebhook("checkout.session.completed", "success", time.Millisecond)
		m.RecordEmail("sent")
		m.RecordCheckout("created")
	})
}
