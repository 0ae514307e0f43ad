package users

import (
	"time"
)

// Auth providers recorded on a user.
const (
	ProviderGoogle = "google"
	ProviderGuest  = "guest"
)

type User struct {
	ID           string `gorm:"primaryKey;type:varchar(128)"`
	Name         string
	Email        string `gorm:"not null;index:idx_users_email"`
	AuthProvider string `gorm:"type:varchar(20);not null"`

	// Written only by the subscription webhook reconciler.
	PlanTier string `gorm:"column:plan_tier;type:varchar(16);not null;default:'free'"`

	// Videos started within QuotaPeriod (ISO week key, UTC).
	WatchCount  int    `gorm:"column:watch_count;not null;default:0"`
	QuotaPeriod string `gorm:"column:quota_period;type:varchar(16);not null;default:''"`

	BillingCustomerID         *string `gorm:"column:billing_customer_id;uniqueIndex:idx_users_billing_customer_id"`
	BillingSubscriptionID     *string `gorm:"column:billing_subscription_id"`
	BillingSubscriptionStatus *string `gorm:"column:billing_subscription_status"`
	// Unix seconds of the newest Stripe event applied to this row.
	BillingEventAt int64 `gorm:"column:billing_event_at;not null;default:0"`

	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime"`
	UpdatedAt time.Time
}

func (u User) IsGuest() bool {
	return u.AuthProvider == ProviderGuest
}
