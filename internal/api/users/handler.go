package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecobrinca/internal/api/respond"
	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/access"
	"ecobrinca/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserReader interface {
	FindByID(ctx context.Context, id string) (users.User, error)
}

type Handler struct {
	store UserReader
	now   func() time.Time
}

func NewHandler(store UserReader) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) currentUser(c *gin.Context) (users.User, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return users.User{}, false
	}

	user, err := h.store.FindByID(c.Request.Context(), userID)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return users.User{}, false
	}
	if err != nil {
		respond.Error(c, apperr.Store("users.me", err))
		return users.User{}, false
	}
	return user, true
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	policy := access.ComputePolicy(h.now(), user)

	c.JSON(http.StatusOK, MeResponse{
		User:    BuildUserDTO(user),
		Billing: BuildBillingDTO(user),
		Access:  BuildAccessDTO(policy),
	})
}

// GET /me/entitlement
func (h *Handler) GetEntitlement(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, BuildAccessDTO(access.ComputePolicy(h.now(), user)))
}
