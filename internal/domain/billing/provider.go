package billing

import "context"

// CustomerRequest describes the billing customer created for a user.
type CustomerRequest struct {
	UserID string
	Email  string
}

// CheckoutRequest opens a hosted subscription checkout.
type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	UserID     string
	Plan       string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the handle the frontend redirects to.
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// Price is a recurring price as shown on the premium page.
type Price struct {
	ID         string  `json:"price_id"`
	Currency   string  `json:"currency"`
	UnitAmount float64 `json:"unit_amount"` // in major units
	Interval   string  `json:"interval"`
	Name       string  `json:"name"`
}

// Provider is the outbound side of the billing provider.
type Provider interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	GetPrice(ctx context.Context, priceID string) (Price, error)
}
