package users

import (
	"ecobrinca/internal/domain/access"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/infra/stripe"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Provider: u.AuthProvider,
		IsGuest:  u.IsGuest(),
		JoinedAt: u.JoinedAt,
	}
}

func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.BillingSubscriptionID == nil || *u.BillingSubscriptionID == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               stripe.NormalizeStatus(u.BillingSubscriptionStatus),
		StripeSubscriptionID: u.BillingSubscriptionID,
	}
}

// BuildBillingDTO flags a pending upgrade while Stripe has a subscription
// that is not active yet; the tier flips once the webhook confirms it.
func BuildBillingDTO(u users.User) BillingDTO {
	tier := plans.NormalizeTier(u.PlanTier)
	sub := BuildSubscriptionDTO(u)

	pending := false
	if tier == plans.TierFree && sub != nil {
		switch sub.Status {
		case "pending", "trialing":
			pending = true
		}
	}

	return BillingDTO{
		PlanTier:       tier,
		HasCustomer:    u.BillingCustomerID != nil && *u.BillingCustomerID != "",
		Subscription:   sub,
		PendingUpgrade: pending,
	}
}

func BuildAccessDTO(p access.Policy) AccessDTO {
	caps := p.Capabilities
	if caps == nil {
		caps = []string{}
	}
	return AccessDTO{
		State:        string(p.State),
		CanWatch:     p.CanWatch,
		WatchCount:   p.WatchCount,
		Limit:        p.Limit,
		Remaining:    p.Remaining,
		Period:       p.Period,
		ResetsAt:     p.ResetsAt,
		Capabilities: caps,
	}
}
