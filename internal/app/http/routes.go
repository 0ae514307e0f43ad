package routes

import (
	authapi "ecobrinca/internal/api/auth"
	billingapi "ecobrinca/internal/api/billing"
	stripewebhooks "ecobrinca/internal/api/stripewebhook"
	usersapi "ecobrinca/internal/api/users"
	videosapi "ecobrinca/internal/api/videos"
	"ecobrinca/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth    *authapi.Handler
	Users   *usersapi.Handler
	Videos  *videosapi.Handler
	Billing *billingapi.Handler
	Webhook *stripewebhooks.Handler

	Authenticator middleware.Authenticator
	GuestLimiter  *middleware.IPRateLimiter
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// Raw body: the signature covers the exact bytes.
	r.POST("/webhook", h.Webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/")
	public.Use(middleware.SanitizeInput())

	public.GET("/plans", h.Billing.ListPlans)
	public.GET("/materials", h.Videos.ListMaterials)
	public.GET("/videos", h.Videos.ListVideos)
	public.GET("/videos/search", h.Videos.SearchVideos)
	public.GET("/videos/:id", h.Videos.GetVideo)

	public.GET("/auth/google", h.Auth.GoogleStart)
	public.GET("/auth/google/callback", h.Auth.GoogleCallback)
	public.POST("/auth/guest", h.GuestLimiter.Middleware(), h.Auth.GuestLogin)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(h.Authenticator), middleware.SanitizeInput())
	auth.GET("/me", h.Users.GetCurrentUser)
	auth.GET("/me/entitlement", h.Users.GetEntitlement)
	auth.POST("/auth/logout", h.Auth.Logout)

	auth.POST("/videos/:id/watch", h.Videos.WatchVideo)

	auth.POST("/create-checkout-session", h.Billing.CreateCheckoutSession)
	auth.POST("/billing-portal", h.Billing.CreateBillingPortal)
}
