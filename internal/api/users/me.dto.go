package users

import "time"

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Provider string    `json:"provider"`
	IsGuest  bool      `json:"is_guest"`
	JoinedAt time.Time `json:"joined_at"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	PlanTier       string           `json:"plan_tier"`
	HasCustomer    bool             `json:"has_customer"`
	Subscription   *SubscriptionDTO `json:"subscription"`
	PendingUpgrade bool             `json:"pending_upgrade"`
}

type SubscriptionDTO struct {
	Status               string  `json:"status"`
	StripeSubscriptionID *string `json:"stripe_subscription_id"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State        string     `json:"state"` // premium|free_under_limit|free_at_limit
	CanWatch     bool       `json:"can_watch"`
	WatchCount   int        `json:"watch_count"`
	Limit        *int       `json:"limit"`
	Remaining    *int       `json:"remaining"`
	Period       string     `json:"period"`
	ResetsAt     *time.Time `json:"resets_at"`
	Capabilities []string   `json:"capabilities"`
}
