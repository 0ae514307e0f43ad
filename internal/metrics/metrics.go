package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	entitlementDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecobrinca",
			Name:      "entitlement_decisions_total",
			Help:      "Watch requests by plan tier and outcome.",
		},
		[]string{"tier", "decision"},
	)

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecobrinca",
			Name:      "stripe_webhook_events_total",
			Help:      "Stripe webhook deliveries by event type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	checkoutSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecobrinca",
			Name:      "checkout_sessions_total",
			Help:      "Checkout session attempts by plan and outcome.",
		},
		[]string{"plan", "outcome"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecobrinca",
			Name:      "logins_total",
			Help:      "Successful logins by auth provider.",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(entitlementDecisions, webhookEvents, checkoutSessions, logins)
}

func RecordEntitlementDecision(tier, decision string) {
	entitlementDecisions.WithLabelValues(tier, decision).Inc()
}

func RecordWebhookEvent(eventType, outcome string) {
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func RecordCheckout(plan, outcome string) {
	checkoutSessions.WithLabelValues(plan, outcome).Inc()
}

func RecordLogin(provider string) {
	logins.WithLabelValues(provider).Inc()
}
