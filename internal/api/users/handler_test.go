package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecobrinca/internal/domain/access"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

func newRouter(t *testing.T, seed ...users.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := users.NewStore(testutil.NewDB(t, &users.User{}, &users.Session{}))
	for i := range seed {
		require.NoError(t, store.Create(context.Background(), &seed[i]))
	}

	h := NewHandler(store)
	h.now = func() time.Time { return testNow }

	r := gin.New()
	asUser := func(c *gin.Context) { c.Set("user_id", c.GetHeader("X-Test-User")) }
	r.GET("/me", asUser, h.GetCurrentUser)
	r.GET("/me/entitlement", asUser, h.GetEntitlement)
	return r
}

func get(r *gin.Engine, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Test-User", userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func strPtr(s string) *string { return &s }

func TestGetCurrentUserFree(t *testing.T) {
	r := newRouter(t, users.User{
		ID: "guest-1", Name: users.GuestName, Email: "guest-1@guest.ecobrinca.com", AuthProvider: users.ProviderGuest,
		PlanTier: plans.TierFree, WatchCount: 2, QuotaPeriod: access.PeriodKey(testNow),
	})

	w := get(r, "/me", "guest-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.User.IsGuest)
	assert.Equal(t, plans.TierFree, resp.Billing.PlanTier)
	assert.False(t, resp.Billing.HasCustomer)
	assert.Nil(t, resp.Billing.Subscription)
	assert.Equal(t, string(access.AccessFreeUnderLimit), resp.Access.State)
	require.NotNil(t, resp.Access.Remaining)
	assert.Equal(t, 1, *resp.Access.Remaining)
	assert.Equal(t, "2026-W42", resp.Access.Period)
}

func TestGetCurrentUserPendingUpgrade(t *testing.T) {
	r := newRouter(t, users.User{
		ID: "u1", Email: "u1@example.com", AuthProvider: users.ProviderGoogle, PlanTier: plans.TierFree,
		BillingCustomerID:         strPtr("cus_1"),
		BillingSubscriptionID:     strPtr("sub_1"),
		BillingSubscriptionStatus: strPtr("incomplete"),
	})

	var resp MeResponse
	w := get(r, "/me", "u1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Billing.HasCustomer)
	assert.True(t, resp.Billing.PendingUpgrade)
	require.NotNil(t, resp.Billing.Subscription)
	assert.Equal(t, "pending", resp.Billing.Subscription.Status)
}

func TestGetEntitlementPremium(t *testing.T) {
	r := newRouter(t, users.User{
		ID: "p1", Email: "p1@example.com", AuthProvider: users.ProviderGoogle, PlanTier: plans.TierPremium,
		BillingSubscriptionID: strPtr("sub_1"), BillingSubscriptionStatus: strPtr("active"),
	})

	w := get(r, "/me/entitlement", "p1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AccessDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(access.AccessPremium), resp.State)
	assert.True(t, resp.CanWatch)
	assert.Nil(t, resp.Limit)
	assert.Nil(t, resp.Remaining)
}

func TestGetCurrentUserErrors(t *testing.T) {
	r := newRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/me", "ghost").Code)
}
