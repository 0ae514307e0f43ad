package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string
	SITE_URL    string

	// Empty means no proxy is trusted and the client IP is the peer address.
	TRUSTED_PROXIES []string

	LOG_LEVEL  string
	LOG_FORMAT string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	STRIPE_SECRET_KEY       string
	STRIPE_WEBHOOK_SECRET   string
	STRIPE_MONTHLY_PRICE_ID string
	STRIPE_ANNUAL_PRICE_ID  string
	APP_ENV                 string

	SEED_VIDEO_URL string
)

// LoadEnv reads .env (if present) and the process environment into the
// package variables. Missing required keys abort the process.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	SITE_URL = strings.TrimRight(getEnv("SITE_URL", "http://localhost:5173"), "/")
	TRUSTED_PROXIES = splitList(getEnv("TRUSTED_PROXIES", ""))

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "auto")

	GOOGLE_CLIENT_ID = mustEnv("GOOGLE_CLIENT_ID")
	GOOGLE_CLIENT_SECRET = mustEnv("GOOGLE_CLIENT_SECRET")
	GOOGLE_REDIRECT_URL = mustEnv("GOOGLE_REDIRECT_URL")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")
	STRIPE_MONTHLY_PRICE_ID = mustEnv("STRIPE_MONTHLY_PRICE_ID")
	STRIPE_ANNUAL_PRICE_ID = mustEnv("STRIPE_ANNUAL_PRICE_ID")
	APP_ENV = getEnv("APP_ENV", "development")
}

// IsProduction reports whether APP_ENV is production.
func IsProduction() bool {
	return APP_ENV == "production"
}

// LoadDatabaseEnv is the reduced variant used by the migrate and seed
// commands, which only talk to Postgres.
func LoadDatabaseEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using system environment variables.")
	}
	DB_URL = mustEnv("DB_URL")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "auto")
	SEED_VIDEO_URL = getEnv("SEED_VIDEO_URL", "https://www.youtube.com/embed/dQw4w9WgXcQ")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("key", key).Msg("Missing required environment variable")
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
