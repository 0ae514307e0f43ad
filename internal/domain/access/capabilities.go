package access

func CapabilitiesFor(state AccessState) []string {
	switch state {
	case AccessPremium:
		return []string{"watch", "unlimited_videos", "billing_portal"}
	case AccessFreeUnderLimit:
		return []string{"watch", "upgrade"}
	default:
		return []string{"upgrade"}
	}
}
