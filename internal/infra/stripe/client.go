package stripe

import (
	"context"
	"errors"

	"ecobrinca/internal/domain/billing"

	stripelib "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// APIError carries the human readable message Stripe returned.
type APIError struct {
	Message string
	Code    string
	Err     error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.Err }

func wrapError(err error) error {
	var se *stripelib.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &APIError{Message: se.Msg, Code: string(se.Code), Err: err}
	}
	return err
}

// Client implements billing.Provider on top of the Stripe API.
type Client struct {
	api    *client.API
	appEnv string
}

var _ billing.Provider = (*Client)(nil)

// NewClient builds a client for secretKey. backends may be nil to use
// Stripe's default endpoints.
func NewClient(secretKey, appEnv string, backends *stripelib.Backends) *Client {
	return &Client{api: client.New(secretKey, backends), appEnv: appEnv}
}

func (c *Client) CreateCustomer(ctx context.Context, req billing.CustomerRequest) (string, error) {
	params := &stripelib.CustomerParams{
		Email: stripelib.String(req.Email),
		Metadata: map[string]string{
			"user_id": req.UserID,
			"app_env": c.appEnv,
		},
	}
	params.Context = ctx
	// Retries and racing first checkouts for the same user get the same
	// customer back from Stripe.
	params.SetIdempotencyKey("customer-create-" + req.UserID)

	cus, err := c.api.Customers.New(params)
	if err != nil {
		return "", wrapError(err)
	}
	return cus.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (billing.CheckoutSession, error) {
	params := &stripelib.CheckoutSessionParams{
		SuccessURL:         stripelib.String(req.SuccessURL),
		CancelURL:          stripelib.String(req.CancelURL),
		Mode:               stripelib.String(string(stripelib.CheckoutSessionModeSubscription)),
		Customer:           stripelib.String(req.CustomerID),
		PaymentMethodTypes: stripelib.StringSlice([]string{"card"}),

		LineItems: []*stripelib.CheckoutSessionLineItemParams{
			{Price: stripelib.String(req.PriceID), Quantity: stripelib.Int64(1)},
		},

		ClientReferenceID: stripelib.String(req.UserID),

		SubscriptionData: &stripelib.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": req.UserID,
				"plan":    req.Plan,
			},
		},
	}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return billing.CheckoutSession{}, wrapError(err)
	}
	return billing.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripelib.BillingPortalSessionParams{
		Customer:  stripelib.String(customerID),
		ReturnURL: stripelib.String(returnURL),
	}
	params.Context = ctx

	portal, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", wrapError(err)
	}
	return portal.URL, nil
}

func (c *Client) GetPrice(ctx context.Context, priceID string) (billing.Price, error) {
	params := &stripelib.PriceParams{}
	params.Context = ctx
	params.AddExpand("product")

	p, err := c.api.Prices.Get(priceID, params)
	if err != nil {
		return billing.Price{}, wrapError(err)
	}

	out := billing.Price{
		ID:         p.ID,
		Currency:   string(p.Currency),
		UnitAmount: float64(p.UnitAmount) / 100.0,
	}
	if p.Recurring != nil {
		out.Interval = string(p.Recurring.Interval)
	}
	if p.Product != nil {
		out.Name = p.Product.Name
	}
	return out, nil
}
