package stripe

import (
	"fmt"
	"testing"
	"time"

	"ecobrinca/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75/webhook"
)

const testSecret = "whsec_test_123"

func sign(t *testing.T, payload, secret string) ([]byte, string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Payload, signed.Header
}

func subscriptionPayload(eventType, customer, status string) string {
	return fmt.Sprintf(`{
  "id": "evt_1",
  "object": "event",
  "type": %q,
  "created": 1760000000,
  "data": {"object": {"id": "sub_1", "object": "subscription", "customer": %q, "status": %q}}
}`, eventType, customer, status)
}

func TestParseSubscriptionEvent(t *testing.T) {
	body, header := sign(t, subscriptionPayload("customer.subscription.updated", "cus_A", "active"), testSecret)

	ev, err := ParseSubscriptionEvent(body, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, "customer.subscription.updated", ev.Type)
	assert.Equal(t, "cus_A", ev.CustomerID)
	assert.Equal(t, "sub_1", ev.SubscriptionID)
	assert.Equal(t, "active", ev.Status)
	assert.Equal(t, int64(1760000000), ev.Created)
}

func TestParseSubscriptionEventRejectsBadSignature(t *testing.T) {
	body, header := sign(t, subscriptionPayload("customer.subscription.updated", "cus_A", "active"), "whsec_wrong")

	_, err := ParseSubscriptionEvent(body, header, testSecret)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindSignatureInvalid))

	_, err = ParseSubscriptionEvent(body, "", testSecret)
	assert.True(t, apperr.Is(err, apperr.KindSignatureInvalid))
}

func TestParseSubscriptionEventPassesThroughOtherTypes(t *testing.T) {
	body, header := sign(t, `{"id":"evt_2","object":"event","type":"invoice.paid","created":1,"data":{"object":{"id":"in_1"}}}`, testSecret)

	ev, err := ParseSubscriptionEvent(body, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", ev.Type)
	assert.Empty(t, ev.CustomerID)
}

func TestParseSubscriptionEventRequiresCustomer(t *testing.T) {
	body, header := sign(t, subscriptionPayload("customer.subscription.created", "", "active"), testSecret)

	_, err := ParseSubscriptionEvent(body, header, testSecret)
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestNormalizeStatus(t *testing.T) {
	s := func(v string) *string { return &v }
	assert.Equal(t, "none", NormalizeStatus(nil))
	assert.Equal(t, "none", NormalizeStatus(s(" ")))
	assert.Equal(t, "active", NormalizeStatus(s("active")))
	assert.Equal(t, "pending", NormalizeStatus(s("incomplete")))
	assert.Equal(t, "past_due", NormalizeStatus(s("unpaid")))
	assert.Equal(t, "canceled", NormalizeStatus(s("incomplete_expired")))
	assert.Equal(t, "paused", NormalizeStatus(s("paused")))
}
