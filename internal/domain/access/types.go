package access

type AccessState string

const (
	AccessPremium        AccessState = "premium"
	AccessFreeUnderLimit AccessState = "free_under_limit"
	AccessFreeAtLimit    AccessState = "free_at_limit"
)

// Decision is the outcome of a watch request. Denied is a normal business
// result (show the upsell), not an error.
type Decision string

const (
	Allowed Decision = "allowed"
	Denied  Decision = "denied"
)

func (d Decision) Allowed() bool {
	return d == Allowed
}
