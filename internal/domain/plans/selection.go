package plans

import "strings"

// Selection is the plan a user picks at checkout.
type Selection string

const (
	SelectionMonthly Selection = "monthly"
	SelectionAnnual  Selection = "annual"
)

// ParseSelection accepts the English keys and the Portuguese ones the
// frontend has always sent ("mensal", "anual").
func ParseSelection(s string) (Selection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "mensal":
		return SelectionMonthly, true
	case "annual", "anual", "yearly":
		return SelectionAnnual, true
	default:
		return "", false
	}
}

// Prices holds the Stripe price identifier configured for each selection.
type Prices struct {
	Monthly string
	Annual  string
}

// PriceID returns the configured price for sel, or "" when none is set.
func (p Prices) PriceID(sel Selection) string {
	switch sel {
	case SelectionMonthly:
		return p.Monthly
	case SelectionAnnual:
		return p.Annual
	default:
		return ""
	}
}
