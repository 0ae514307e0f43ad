package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecobrinca/internal/domain/plans"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ApplyResult tells the reconciler what a subscription write did.
type ApplyResult int

const (
	Applied ApplyResult = iota
	StaleEvent
	UnknownCustomer
)

// SubscriptionState is the billing snapshot carried by one Stripe event.
type SubscriptionState struct {
	SubscriptionID string // empty leaves the stored id untouched
	Status         string
	PlanTier       string
	EventAt        int64
}

// Store is the user record store. Every write is a single-row statement so
// concurrent requests for the same user are settled by the database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindByID(ctx context.Context, id string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}

func (s *Store) FindByBillingCustomerID(ctx context.Context, customerID string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("billing_customer_id = ?", customerID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user by customer %s: %w", customerID, err)
	}
	return user, nil
}

func (s *Store) Create(ctx context.Context, user *User) error {
	user.PlanTier = plans.NormalizeTier(user.PlanTier)
	return s.db.WithContext(ctx).Create(user).Error
}

// IncrementWatchCount adds one to a free user's count for period, starting
// the count over when the stored period is a different one. The row is
// only touched while the user is not premium and below limit for period;
// the boolean reports whether it was. Any tier other than premium counts
// as free, as in plans.NormalizeTier.
func (s *Store) IncrementWatchCount(ctx context.Context, id, period string, limit int) (bool, error) {
	res := s.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND plan_tier <> ?", id, plans.TierPremium).
		Where("(quota_period <> ? OR watch_count < ?)", period, limit).
		Updates(map[string]interface{}{
			"watch_count":  gorm.Expr("CASE WHEN quota_period = ? THEN watch_count + 1 ELSE 1 END", period),
			"quota_period": period,
		})
	if res.Error != nil {
		return false, fmt.Errorf("increment watch count for %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// SetBillingCustomerIDOnce stores customerID unless the user already has
// one, and returns whichever id is stored afterwards.
func (s *Store) SetBillingCustomerIDOnce(ctx context.Context, id, customerID string) (string, error) {
	res := s.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND billing_customer_id IS NULL", id).
		Update("billing_customer_id", customerID)
	if res.Error != nil {
		return "", fmt.Errorf("store billing customer for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return customerID, nil
	}

	user, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user.BillingCustomerID == nil || *user.BillingCustomerID == "" {
		return "", fmt.Errorf("store billing customer for %s: no row updated", id)
	}
	return *user.BillingCustomerID, nil
}

// ApplySubscriptionState writes st onto the user owning customerID. Events
// older than the last applied one are skipped; an event with the same
// timestamp is written again, which leaves the row unchanged on replay.
func (s *Store) ApplySubscriptionState(ctx context.Context, customerID string, st SubscriptionState) (ApplyResult, error) {
	updates := map[string]interface{}{
		"billing_subscription_status": st.Status,
		"plan_tier":                   st.PlanTier,
		"billing_event_at":            st.EventAt,
	}
	if st.SubscriptionID != "" {
		updates["billing_subscription_id"] = st.SubscriptionID
	}

	res := s.db.WithContext(ctx).Model(&User{}).
		Where("billing_customer_id = ? AND billing_event_at <= ?", customerID, st.EventAt).
		Updates(updates)
	if res.Error != nil {
		return Applied, fmt.Errorf("apply subscription state for %s: %w", customerID, res.Error)
	}
	if res.RowsAffected > 0 {
		return Applied, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).
		Where("billing_customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return Applied, fmt.Errorf("lookup customer %s: %w", customerID, err)
	}
	if count == 0 {
		return UnknownCustomer, nil
	}
	return StaleEvent, nil
}

/* ---------------- sessions ---------------- */

func (s *Store) CreateSession(ctx context.Context, session *Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *Store) FindSession(ctx context.Context, id string) (Session, error) {
	var session Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

// RevokeSession marks the session revoked. Revoking twice is a no-op.
func (s *Store) RevokeSession(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}
