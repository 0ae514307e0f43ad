package billing

import (
	"context"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/plans"
)

// PlanOffer is one purchasable plan with its live Stripe price.
type PlanOffer struct {
	Plan  plans.Selection `json:"plan"`
	Price Price           `json:"price"`
}

// ListPlans reads the configured monthly and annual prices from the
// provider, monthly first.
func ListPlans(ctx context.Context, provider Provider, prices plans.Prices) ([]PlanOffer, error) {
	const op = "billing.list_plans"

	offers := make([]PlanOffer, 0, 2)
	for _, sel := range []plans.Selection{plans.SelectionMonthly, plans.SelectionAnnual} {
		id := prices.PriceID(sel)
		if id == "" {
			continue
		}
		p, err := provider.GetPrice(ctx, id)
		if err != nil {
			return nil, apperr.Upstream(op, err)
		}
		offers = append(offers, PlanOffer{Plan: sel, Price: p})
	}
	return offers, nil
}
