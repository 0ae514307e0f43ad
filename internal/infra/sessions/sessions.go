package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

// Store is the slice of the user store sessions need.
type Store interface {
	CreateSession(ctx context.Context, session *users.Session) error
	FindSession(ctx context.Context, id string) (users.Session, error)
	RevokeSession(ctx context.Context, id string, at time.Time) error
}

// Claims are carried by every app token. Sid names the server-side session
// so a token stops working once its session is revoked.
type Claims struct {
	SessionID string `json:"sid"`
	Provider  string `json:"provider"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() string { return c.Subject }

// Manager issues and checks app tokens.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the manager's time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Issue opens a session for user and returns the signed token for it.
func (m *Manager) Issue(ctx context.Context, user users.User) (string, error) {
	const op = "sessions.issue"

	if len(m.secret) == 0 {
		return "", apperr.E(apperr.KindInternal, op, "JWT secret not configured", nil)
	}

	now := m.now().UTC()
	session := users.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.CreateSession(ctx, &session); err != nil {
		return "", apperr.Store(op, err)
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: session.ID,
		Provider:  user.AuthProvider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", apperr.E(apperr.KindInternal, op, "could not create token", err)
	}
	return signed, nil
}

// Authenticate validates the token and its session. Any failure is
// KindUnauthenticated.
func (m *Manager) Authenticate(ctx context.Context, tokenString string) (Claims, error) {
	const op = "sessions.authenticate"

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, apperr.Unauthenticated(op, "Invalid or expired token")
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return Claims{}, apperr.Unauthenticated(op, "Invalid token claims")
	}

	session, err := m.store.FindSession(ctx, claims.SessionID)
	if errors.Is(err, users.ErrSessionNotFound) {
		return Claims{}, apperr.Unauthenticated(op, "Session not found")
	}
	if err != nil {
		return Claims{}, apperr.Store(op, err)
	}
	if session.UserID != claims.Subject || !session.ActiveAt(m.now()) {
		return Claims{}, apperr.Unauthenticated(op, "Session expired or revoked")
	}
	return claims, nil
}

// Revoke ends a session. Revoking an already revoked session succeeds.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if err := m.store.RevokeSession(ctx, sessionID, m.now().UTC()); err != nil {
		return apperr.Store("sessions.revoke", err)
	}
	return nil
}
