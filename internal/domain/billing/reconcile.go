package billing

import (
	"context"
	"strings"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"

	"github.com/rs/zerolog/log"
)

// Subscription event types the reconciler models.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// SubscriptionEvent is a verified subscription change from the provider.
type SubscriptionEvent struct {
	ID             string
	Type           string
	CustomerID     string
	SubscriptionID string
	Status         string
	Created        int64 // unix seconds
}

// Outcome describes what Apply did with an event.
type Outcome string

const (
	OutcomeApplied         Outcome = "applied"
	OutcomeStale           Outcome = "stale"
	OutcomeUnknownCustomer Outcome = "unknown_customer"
	OutcomeIgnored         Outcome = "ignored"
)

type ReconcileStore interface {
	ApplySubscriptionState(ctx context.Context, customerID string, st users.SubscriptionState) (users.ApplyResult, error)
}

// Reconciler is the only writer of a user's plan tier. Every event sets
// fields to the event's values, so redelivery converges to the same row.
type Reconciler struct {
	store ReconcileStore
}

func NewReconciler(store ReconcileStore) *Reconciler {
	return &Reconciler{store: store}
}

// Handles reports whether eventType is one the reconciler acts on.
func Handles(eventType string) bool {
	switch eventType {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	}
	return false
}

func (r *Reconciler) Apply(ctx context.Context, ev SubscriptionEvent) (Outcome, error) {
	const op = "billing.reconcile"

	if !Handles(ev.Type) {
		return OutcomeIgnored, nil
	}
	if strings.TrimSpace(ev.CustomerID) == "" {
		return "", apperr.InvalidArgument(op, "subscription event has no customer")
	}

	st := users.SubscriptionState{
		SubscriptionID: ev.SubscriptionID,
		Status:         ev.Status,
		EventAt:        ev.Created,
	}
	switch ev.Type {
	case EventSubscriptionDeleted:
		st.PlanTier = plans.TierFree
	default:
		st.PlanTier = plans.TierForSubscriptionStatus(ev.Status)
	}

	res, err := r.store.ApplySubscriptionState(ctx, ev.CustomerID, st)
	if err != nil {
		return "", apperr.Store(op, err)
	}

	logger := log.With().
		Str("event_id", ev.ID).
		Str("event_type", ev.Type).
		Str("customer_id", ev.CustomerID).
		Str("status", ev.Status).
		Logger()

	switch res {
	case users.UnknownCustomer:
		logger.Warn().Msg("subscription event for unknown billing customer")
		return OutcomeUnknownCustomer, nil
	case users.StaleEvent:
		logger.Info().Msg("subscription event older than stored state, skipped")
		return OutcomeStale, nil
	default:
		logger.Info().Str("plan_tier", st.PlanTier).Msg("subscription state applied")
		return OutcomeApplied, nil
	}
}
