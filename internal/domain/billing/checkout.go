package billing

import (
	"context"
	"errors"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/metrics"

	"github.com/rs/zerolog/log"
)

// CheckoutStore is the slice of the user store checkout needs.
type CheckoutStore interface {
	FindByID(ctx context.Context, id string) (users.User, error)
	SetBillingCustomerIDOnce(ctx context.Context, id, customerID string) (string, error)
}

type CheckoutConfig struct {
	Prices  plans.Prices
	SiteURL string
}

// Checkout opens Stripe checkout sessions. It never changes a user's tier;
// that only happens when the subscription webhook arrives.
type Checkout struct {
	store    CheckoutStore
	provider Provider
	cfg      CheckoutConfig
}

func NewCheckout(store CheckoutStore, provider Provider, cfg CheckoutConfig) *Checkout {
	return &Checkout{store: store, provider: provider, cfg: cfg}
}

func (c *Checkout) successURL() string { return c.cfg.SiteURL + "/perfil?success=true" }
func (c *Checkout) cancelURL() string  { return c.cfg.SiteURL + "/premium" }
func (c *Checkout) portalReturnURL() string {
	return c.cfg.SiteURL + "/perfil"
}

// Start opens a subscription checkout for userID on the selected plan.
func (c *Checkout) Start(ctx context.Context, userID, plan string) (CheckoutSession, error) {
	const op = "billing.checkout"

	sel, ok := plans.ParseSelection(plan)
	if !ok {
		metrics.RecordCheckout("invalid", "invalid_argument")
		return CheckoutSession{}, apperr.InvalidArgument(op, "Invalid plan, expected monthly or annual")
	}
	priceID := c.cfg.Prices.PriceID(sel)
	if priceID == "" {
		return CheckoutSession{}, apperr.E(apperr.KindInternal, op, "price not configured for "+string(sel), nil)
	}

	user, err := c.loadUser(ctx, op, userID)
	if err != nil {
		return CheckoutSession{}, err
	}

	customerID, err := c.ensureCustomer(ctx, user)
	if err != nil {
		metrics.RecordCheckout(string(sel), string(apperr.KindOf(err)))
		return CheckoutSession{}, err
	}

	session, err := c.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     user.ID,
		Plan:       string(sel),
		SuccessURL: c.successURL(),
		CancelURL:  c.cancelURL(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Str("plan", string(sel)).Msg("checkout session creation failed")
		metrics.RecordCheckout(string(sel), string(apperr.KindUpstream))
		return CheckoutSession{}, apperr.Upstream(op, err)
	}

	metrics.RecordCheckout(string(sel), "created")
	log.Info().Str("user_id", user.ID).Str("plan", string(sel)).Str("session_id", session.ID).Msg("checkout session created")
	return session, nil
}

// PortalURL opens the Stripe billing portal for a user who already has a
// billing customer.
func (c *Checkout) PortalURL(ctx context.Context, userID string) (string, error) {
	const op = "billing.portal"

	user, err := c.loadUser(ctx, op, userID)
	if err != nil {
		return "", err
	}
	if user.BillingCustomerID == nil || *user.BillingCustomerID == "" {
		return "", apperr.InvalidArgument(op, "No billing customer yet (subscribe first)")
	}

	url, err := c.provider.CreatePortalSession(ctx, *user.BillingCustomerID, c.portalReturnURL())
	if err != nil {
		return "", apperr.Upstream(op, err)
	}
	return url, nil
}

// ensureCustomer returns the user's billing customer, creating it on the
// first checkout. Two racing first checkouts may both call the provider;
// only one id is kept and both requests continue with it.
func (c *Checkout) ensureCustomer(ctx context.Context, user users.User) (string, error) {
	const op = "billing.ensure_customer"

	if user.BillingCustomerID != nil && *user.BillingCustomerID != "" {
		return *user.BillingCustomerID, nil
	}

	created, err := c.provider.CreateCustomer(ctx, CustomerRequest{UserID: user.ID, Email: user.Email})
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("billing customer creation failed")
		return "", apperr.Upstream(op, err)
	}

	stored, err := c.store.SetBillingCustomerIDOnce(ctx, user.ID, created)
	if err != nil {
		return "", apperr.Store(op, err)
	}
	if stored != created {
		log.Info().Str("user_id", user.ID).Str("kept", stored).Str("discarded", created).Msg("billing customer already set by a concurrent checkout")
	}
	return stored, nil
}

func (c *Checkout) loadUser(ctx context.Context, op, userID string) (users.User, error) {
	if userID == "" {
		return users.User{}, apperr.Unauthenticated(op, "User not identified")
	}
	user, err := c.store.FindByID(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return users.User{}, apperr.Unauthenticated(op, "User not found")
	}
	if err != nil {
		return users.User{}, apperr.Store(op, err)
	}
	return user, nil
}
