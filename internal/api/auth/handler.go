package auth

import (
	"context"
	"net/http"
	"net/url"

	"ecobrinca/internal/api/respond"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const stateCookie = "oauth_state"

// TokenIssuer opens a session for a user and returns its bearer token.
type TokenIssuer interface {
	Issue(ctx context.Context, user users.User) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type Config struct {
	// FrontendRedirect receives ?token= after a Google login. When empty
	// the callback answers with JSON instead.
	FrontendRedirect string
	SecureCookies    bool
}

type Handler struct {
	resolver *users.Resolver
	tokens   TokenIssuer
	google   IdentityProvider
	cfg      Config
}

func NewHandler(resolver *users.Resolver, tokens TokenIssuer, google IdentityProvider, cfg Config) *Handler {
	return &Handler{resolver: resolver, tokens: tokens, google: google, cfg: cfg}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	PlanTier string `json:"plan_tier"`
	IsGuest  bool   `json:"is_guest"`
}

func toUserResponse(u users.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Provider: u.AuthProvider,
		PlanTier: u.PlanTier,
		IsGuest:  u.IsGuest(),
	}
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.cfg.SecureCookies, true)

	principal, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("google login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.resolver.Resolve(c.Request.Context(), principal)
	if err != nil {
		respond.Error(c, err)
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	metrics.RecordLogin(users.ProviderGoogle)

	if h.cfg.FrontendRedirect == "" {
		c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
		return
	}
	c.Redirect(http.StatusFound, h.cfg.FrontendRedirect+"?token="+url.QueryEscape(token))
}

// POST /auth/guest
func (h *Handler) GuestLogin(c *gin.Context) {
	user, err := h.resolver.Guest(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	token, err := h.tokens.Issue(c.Request.Context(), user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	metrics.RecordLogin(users.ProviderGuest)

	c.JSON(http.StatusCreated, loginResponse{Token: token, User: toUserResponse(user)})
}

// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.tokens.Revoke(c.Request.Context(), sessionID); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
