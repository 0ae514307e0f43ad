package users

import (
	"context"
	"errors"
	"strings"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/plans"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	GuestName        = "Visitante"
	guestIDPrefix    = "guest-"
	guestEmailDomain = "guest.ecobrinca.com"
)

// Principal is an identity vouched for by an auth provider.
type Principal struct {
	ID       string
	Email    string
	Name     string
	Provider string
}

// Resolver maps principals to user records, creating the record the first
// time a principal is seen.
type Resolver struct {
	store   *Store
	newUUID func() string
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store, newUUID: uuid.NewString}
}

// Resolve returns the user for p. A new user starts on the free tier with
// nothing watched. If two first logins race, the losing insert re-reads the
// row written by the winner.
func (r *Resolver) Resolve(ctx context.Context, p Principal) (User, error) {
	const op = "users.resolve"

	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return User{}, apperr.Unauthenticated(op, "principal has no id")
	}

	user, err := r.store.FindByID(ctx, p.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Store(op, err)
	}

	user = User{
		ID:           p.ID,
		Name:         firstNonEmpty(p.Name, p.Email),
		Email:        p.Email,
		AuthProvider: firstNonEmpty(p.Provider, ProviderGoogle),
		PlanTier:     plans.TierFree,
		WatchCount:   0,
	}
	if createErr := r.store.Create(ctx, &user); createErr != nil {
		existing, findErr := r.store.FindByID(ctx, p.ID)
		if findErr == nil {
			log.Debug().Str("user_id", p.ID).Msg("concurrent first login, using existing user")
			return existing, nil
		}
		return User{}, apperr.Store(op, createErr)
	}

	log.Info().Str("user_id", user.ID).Str("provider", user.AuthProvider).Msg("user created")
	return user, nil
}

// Guest creates a fresh anonymous user.
func (r *Resolver) Guest(ctx context.Context) (User, error) {
	id := guestIDPrefix + r.newUUID()
	return r.Resolve(ctx, Principal{
		ID:       id,
		Email:    id + "@" + guestEmailDomain,
		Name:     GuestName,
		Provider: ProviderGuest,
	})
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
