package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecobrinca/config"
	"ecobrinca/database"
	"ecobrinca/internal/api/auth"
	"ecobrinca/internal/app"
	"ecobrinca/internal/domain/catalog"
	"ecobrinca/internal/domain/plans"
	"ecobrinca/internal/infra/sessions"
	stripeinfra "ecobrinca/internal/infra/stripe"
	"ecobrinca/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "ecobrinca",
	Short:   "Ecobrinca API - recycled craft videos for kids",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDatabaseEnv()
		initLogging()

		db, err := database.Open(config.DB_URL)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the starter materials and videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDatabaseEnv()
		initLogging()

		db, err := database.Open(config.DB_URL)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := catalog.Seed(cmd.Context(), db, config.SEED_VIDEO_URL); err != nil {
			return err
		}
		log.Info().Msg("catalog seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initLogging() {
	logging.Init(logging.Config{Format: config.LOG_FORMAT, Level: config.LOG_LEVEL})
}

func runServe(ctx context.Context) error {
	config.LoadEnv()
	initLogging()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(config.DB_URL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	router := app.NewRouter(ctx, app.Config{
		JWTSecret:        config.JWT_SECRET,
		SessionTTL:       sessions.DefaultTTL,
		CORSOrigin:       config.CORS_ORIGIN,
		SiteURL:          config.SITE_URL,
		FrontendRedirect: config.GOOGLE_FRONTEND_REDIRECT,
		SecureCookies:    config.IsProduction(),
		TrustedProxies:   config.TRUSTED_PROXIES,
		Prices: plans.Prices{
			Monthly: config.STRIPE_MONTHLY_PRICE_ID,
			Annual:  config.STRIPE_ANNUAL_PRICE_ID,
		},
		WebhookSecret: config.STRIPE_WEBHOOK_SECRET,
	},
		db,
		stripeinfra.NewClient(config.STRIPE_SECRET_KEY, config.APP_ENV, nil),
		auth.NewGoogle(auth.GoogleConfig{
			ClientID:     config.GOOGLE_CLIENT_ID,
			ClientSecret: config.GOOGLE_CLIENT_SECRET,
			RedirectURL:  config.GOOGLE_REDIRECT_URL,
		}),
	)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", Version).Msg("ecobrinca api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
