package access

import (
	"time"

	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
)

// ComputeAccessState places u in the entitlement state machine at now.
func ComputeAccessState(now time.Time, u users.User) AccessState {
	if plans.NormalizeTier(u.PlanTier) == plans.TierPremium {
		return AccessPremium
	}
	if EffectiveWatchCount(u, PeriodKey(now)) < FreeWeeklyLimit {
		return AccessFreeUnderLimit
	}
	return AccessFreeAtLimit
}

// CanConsume is true for premium users and for free users under the limit.
func CanConsume(now time.Time, u users.User) bool {
	return ComputeAccessState(now, u) != AccessFreeAtLimit
}
