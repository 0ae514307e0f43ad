package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"ecobrinca/internal/domain/billing"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu        sync.Mutex
	customers int
	priceErr  error
}

func (f *fakeProvider) CreateCustomer(context.Context, billing.CustomerRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers++
	return fmt.Sprintf("cus_%d", f.customers), nil
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req billing.CheckoutRequest) (billing.CheckoutSession, error) {
	return billing.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1?price=" + req.PriceID}, nil
}

func (f *fakeProvider) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	return "https://billing.stripe.com/p/session/" + customerID, nil
}

func (f *fakeProvider) GetPrice(_ context.Context, priceID string) (billing.Price, error) {
	if f.priceErr != nil {
		return billing.Price{}, f.priceErr
	}
	return billing.Price{ID: priceID, Currency: "brl", UnitAmount: 19.9, Interval: "month"}, nil
}

var testPrices = plans.Prices{Monthly: "price_monthly", Annual: "price_annual"}

func newRouter(t *testing.T, provider *fakeProvider) (*gin.Engine, *users.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := users.NewStore(testutil.NewDB(t, &users.User{}, &users.Session{}))
	require.NoError(t, store.Create(context.Background(), &users.User{ID: "u1", Email: "u1@example.com", AuthProvider: users.ProviderGoogle}))

	checkout := billing.NewCheckout(store, provider, billing.CheckoutConfig{Prices: testPrices, SiteURL: "https://app.example.com"})
	h := NewHandler(checkout, provider, testPrices)

	r := gin.New()
	asUser := func(c *gin.Context) { c.Set("user_id", c.GetHeader("X-Test-User")) }
	r.GET("/plans", h.ListPlans)
	r.POST("/create-checkout-session", asUser, h.CreateCheckoutSession)
	r.POST("/billing-portal", asUser, h.CreateBillingPortal)
	return r, store
}

func post(r *gin.Engine, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCheckoutSession(t *testing.T) {
	r, store := newRouter(t, &fakeProvider{})

	w := post(r, "/create-checkout-session", "u1", `{"plan":"annual"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp billing.CheckoutSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_1", resp.ID)
	assert.Contains(t, resp.URL, "price_annual")

	u, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, u.BillingCustomerID)
	assert.Equal(t, "cus_1", *u.BillingCustomerID)
	assert.Equal(t, plans.TierFree, u.PlanTier)
}

func TestCreateCheckoutSessionErrors(t *testing.T) {
	r, _ := newRouter(t, &fakeProvider{})

	assert.Equal(t, http.StatusBadRequest, post(r, "/create-checkout-session", "u1", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/create-checkout-session", "u1", `{"plan":"weekly"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, "/create-checkout-session", "", `{"plan":"monthly"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, "/create-checkout-session", "ghost", `{"plan":"monthly"}`).Code)
}

func TestBillingPortalRequiresCustomer(t *testing.T) {
	r, _ := newRouter(t, &fakeProvider{})

	assert.Equal(t, http.StatusBadRequest, post(r, "/billing-portal", "u1", "").Code)

	require.Equal(t, http.StatusOK, post(r, "/create-checkout-session", "u1", `{"plan":"monthly"}`).Code)
	w := post(r, "/billing-portal", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cus_1")
}

func TestListPlans(t *testing.T) {
	r, _ := newRouter(t, &fakeProvider{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Plans []billing.PlanOffer `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plans, 2)
	assert.Equal(t, plans.SelectionMonthly, resp.Plans[0].Plan)
	assert.Equal(t, "price_annual", resp.Plans[1].Price.ID)

	r, _ = newRouter(t, &fakeProvider{priceErr: errors.New("No such price: 'price_monthly'")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plans", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "No such price")
}
