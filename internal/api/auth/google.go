package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"

	"ecobrinca/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

// IdentityProvider is an OAuth login provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for a verified principal.
	Exchange(ctx context.Context, code string) (users.Principal, error)
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google signs users in with Google OIDC.
type Google struct {
	oauth *oauth2.Config

	once     sync.Once
	verifier *oidc.IDTokenVerifier
	initErr  error
}

func NewGoogle(cfg GoogleConfig) *Google {
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"openid",
				"email",
				"profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func (g *Google) Exchange(ctx context.Context, code string) (users.Principal, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return users.Principal{}, errors.New("failed to exchange code")
	}

	// Google returns an ID token (JWT) with openid scope
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return users.Principal{}, errors.New("missing id_token")
	}

	verifier, err := g.idTokenVerifier(ctx)
	if err != nil {
		return users.Principal{}, err
	}
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return users.Principal{}, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return users.Principal{}, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return users.Principal{}, errors.New("token missing required claims")
	}

	return users.Principal{
		ID:       claims.Sub,
		Email:    claims.Email,
		Name:     firstNonEmpty(claims.Name, claims.GivenName),
		Provider: users.ProviderGoogle,
	}, nil
}

// idTokenVerifier fetches Google's discovery document once.
func (g *Google) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.once.Do(func() {
		provider, err := oidc.NewProvider(context.WithoutCancel(ctx), googleIssuer)
		if err != nil {
			g.initErr = errors.New("failed to init google oidc provider")
			return
		}
		g.verifier = provider.Verifier(&oidc.Config{ClientID: g.oauth.ClientID})
	})
	return g.verifier, g.initErr
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
