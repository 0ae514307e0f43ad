package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// NormalizeTier maps stored or legacy values onto a known tier.
// Anything that is not explicitly premium is free.
func NormalizeTier(tier string) string {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case TierPremium:
		return TierPremium
	default:
		return TierFree
	}
}

// TierForSubscriptionStatus is the tier a user holds while their billing
// subscription is in the given status. Only "active" grants premium.
func TierForSubscriptionStatus(status string) string {
	if strings.TrimSpace(status) == "active" {
		return TierPremium
	}
	return TierFree
}
