package billing

import (
	"net/http"

	"ecobrinca/internal/api/respond"
	"ecobrinca/internal/domain/billing"
	"ecobrinca/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	checkout *billing.Checkout
	provider billing.Provider
	prices   plans.Prices
}

func NewHandler(checkout *billing.Checkout, provider billing.Provider, prices plans.Prices) *Handler {
	return &Handler{checkout: checkout, provider: provider, prices: prices}
}

// POST /create-checkout-session {"plan": "monthly" | "annual"}
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan"})
		return
	}

	session, err := h.checkout.Start(c.Request.Context(), c.GetString("user_id"), body.Plan)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// POST /billing-portal
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	url, err := h.checkout.PortalURL(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
