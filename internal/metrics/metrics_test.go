package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEntitlementDecision(t *testing.T) {
	before := testutil.ToFloat64(entitlementDecisions.WithLabelValues("free", "denied"))
	RecordEntitlementDecision("free", "denied")
	assert.Equal(t, before+1, testutil.ToFloat64(entitlementDecisions.WithLabelValues("free", "denied")))
}

func TestRecordWebhookEvent(t *testing.T) {
	before := testutil.ToFloat64(webhookEvents.WithLabelValues("customer.subscription.updated", "applied"))
	RecordWebhookEvent("customer.subscription.updated", "applied")
	assert.Equal(t, before+1, testutil.ToFloat64(webhookEvents.WithLabelValues("customer.subscription.updated", "applied")))
}
