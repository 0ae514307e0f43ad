package billing

import (
	"net/http"

	"ecobrinca/internal/api/respond"
	"ecobrinca/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

// GET /plans
func (h *Handler) ListPlans(c *gin.Context) {
	offers, err := billing.ListPlans(c.Request.Context(), h.provider, h.prices)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": offers})
}
