package stripe

import (
	"encoding/json"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/billing"

	stripelib "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// ParseSubscriptionEvent verifies payload against the Stripe-Signature
// header and decodes it. Event types the reconciler does not model come
// back with only ID, Type and Created set.
func ParseSubscriptionEvent(payload []byte, sigHeader, secret string) (billing.SubscriptionEvent, error) {
	const op = "stripe.parse_webhook"

	event, err := webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return billing.SubscriptionEvent{}, apperr.E(apperr.KindSignatureInvalid, op, "signature verification failed", err)
	}

	ev := billing.SubscriptionEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: event.Created,
	}
	if !billing.Handles(ev.Type) {
		return ev, nil
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return ev, apperr.InvalidArgument(op, "Failed to parse subscription")
	}
	var sub stripelib.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return ev, apperr.E(apperr.KindInvalidArgument, op, "Failed to parse subscription", err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return ev, apperr.InvalidArgument(op, "Subscription has no customer")
	}

	ev.CustomerID = sub.Customer.ID
	ev.SubscriptionID = sub.ID
	ev.Status = string(sub.Status)
	return ev, nil
}
