package app

import (
	"context"
	"time"

	authapi "ecobrinca/internal/api/auth"
	billingapi "ecobrinca/internal/api/billing"
	stripewebhooks "ecobrinca/internal/api/stripewebhook"
	usersapi "ecobrinca/internal/api/users"
	videosapi "ecobrinca/internal/api/videos"
	routes "ecobrinca/internal/app/http"
	"ecobrinca/internal/app/http/middleware"
	"ecobrinca/internal/domain/access"
	"ecobrinca/internal/domain/billing"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/domain/users"
	"ecobrinca/internal/infra/sessions"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Config struct {
	JWTSecret        string
	SessionTTL       time.Duration
	CORSOrigin       string
	SiteURL          string
	FrontendRedirect string
	SecureCookies    bool
	// TrustedProxies may set the client IP through X-Forwarded-For. Nil
	// trusts none, so limits key on the TCP peer.
	TrustedProxies []string

	Prices        plans.Prices
	WebhookSecret string

	GuestLoginsPerMinute int
	GuestLoginBurst      int
}

// NewRouter wires stores, domain services and handlers onto a gin engine.
// ctx bounds background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg Config, db *gorm.DB, provider billing.Provider, google authapi.IdentityProvider) *gin.Engine {
	store := users.NewStore(db)
	tokens := sessions.NewManager(store, cfg.JWTSecret, cfg.SessionTTL)

	checkout := billing.NewCheckout(store, provider, billing.CheckoutConfig{
		Prices:  cfg.Prices,
		SiteURL: cfg.SiteURL,
	})

	perMinute, burst := cfg.GuestLoginsPerMinute, cfg.GuestLoginBurst
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Auth: authapi.NewHandler(users.NewResolver(store), tokens, google, authapi.Config{
			FrontendRedirect: cfg.FrontendRedirect,
			SecureCookies:    cfg.SecureCookies,
		}),
		Users:         usersapi.NewHandler(store),
		Videos:        videosapi.NewHandler(db, access.NewEngine(store)),
		Billing:       billingapi.NewHandler(checkout, provider, cfg.Prices),
		Webhook:       stripewebhooks.NewHandler(billing.NewReconciler(store), cfg.WebhookSecret),
		Authenticator: tokens,
		GuestLimiter:  middleware.NewIPRateLimiter(ctx, perMinute, burst),
	})

	return r
}
