package access

import (
	"time"

	"ecobrinca/internal/domain/users"
)

// Policy is the read model of a user's entitlement, served to the frontend.
// Limit, Remaining and ResetsAt are nil for premium users.
type Policy struct {
	State        AccessState
	CanWatch     bool
	WatchCount   int
	Limit        *int
	Remaining    *int
	Period       string
	ResetsAt     *time.Time
	Capabilities []string
}

func ComputePolicy(now time.Time, u users.User) Policy {
	state := ComputeAccessState(now, u)
	period := PeriodKey(now)
	watched := EffectiveWatchCount(u, period)

	p := Policy{
		State:        state,
		CanWatch:     state != AccessFreeAtLimit,
		WatchCount:   watched,
		Period:       period,
		Capabilities: CapabilitiesFor(state),
	}
	if state != AccessPremium {
		limit := FreeWeeklyLimit
		remaining := Remaining(watched)
		resets := PeriodEnd(now)
		p.Limit = &limit
		p.Remaining = &remaining
		p.ResetsAt = &resets
	}
	return p
}
