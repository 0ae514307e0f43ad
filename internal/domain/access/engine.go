package access

import (
	"context"
	"errors"
	"time"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/metrics"

	"github.com/rs/zerolog/log"
)

// UserStore is the slice of the user store the engine needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (users.User, error)
	IncrementWatchCount(ctx context.Context, id, period string, limit int) (bool, error)
}

// Engine decides watch requests. It keeps no state of its own: every call
// reads the stored user record.
type Engine struct {
	store UserStore
	now   func() time.Time
}

func NewEngine(store UserStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// WithClock replaces the engine's time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) load(ctx context.Context, op, userID string) (users.User, error) {
	u, err := e.store.FindByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return users.User{}, apperr.NotFound(op, "user not found")
	}
	if err != nil {
		return users.User{}, apperr.Store(op, err)
	}
	return u, nil
}

// CanConsume reports whether userID may start a video right now. It never
// writes.
func (e *Engine) CanConsume(ctx context.Context, userID string) (bool, error) {
	u, err := e.load(ctx, "access.can_consume", userID)
	if err != nil {
		return false, err
	}
	return CanConsume(e.now(), u), nil
}

// Policy returns the full entitlement read model for userID.
func (e *Engine) Policy(ctx context.Context, userID string) (Policy, error) {
	u, err := e.load(ctx, "access.policy", userID)
	if err != nil {
		return Policy{}, err
	}
	return ComputePolicy(e.now(), u), nil
}

// Consume records one video start for userID. Premium users are allowed
// without any write. Free users are allowed only if the store accepts the
// conditional increment; when it refuses (limit reached by a concurrent
// request) the result is Denied and nothing changes. A non-nil error always
// comes with Denied.
func (e *Engine) Consume(ctx context.Context, userID string) (Decision, error) {
	const op = "access.consume"

	u, err := e.load(ctx, op, userID)
	if err != nil {
		return Denied, err
	}

	decision, err := e.consume(ctx, u)
	metrics.RecordEntitlementDecision(plans.NormalizeTier(u.PlanTier), string(decision))
	return decision, err
}

func (e *Engine) consume(ctx context.Context, u users.User) (Decision, error) {
	const op = "access.consume"

	if plans.NormalizeTier(u.PlanTier) == plans.TierPremium {
		return Allowed, nil
	}

	period := PeriodKey(e.now())
	if EffectiveWatchCount(u, period) >= FreeWeeklyLimit {
		return Denied, nil
	}

	ok, err := e.store.IncrementWatchCount(ctx, u.ID, period, FreeWeeklyLimit)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("watch count increment failed")
		return Denied, apperr.Store(op, err)
	}
	if ok {
		return Allowed, nil
	}

	// The row no longer qualified: either another request used the last
	// slot or the user was upgraded in between.
	fresh, err := e.load(ctx, op, u.ID)
	if err == nil && plans.NormalizeTier(fresh.PlanTier) == plans.TierPremium {
		return Allowed, nil
	}
	return Denied, nil
}
