package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents JWT claims
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// TokenResponse is returned on sign-in
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	Profile     *Profile `json:"profile"`
}

// AuthUser is the authenticated identity behind a request
type AuthUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Session is the per-request snapshot of who is calling. It is built by the
// auth middleware and passed explicitly, never stored globally.
type Session struct {
	User    *AuthUser `json:"user,omitempty"`
	Profile *Profile  `json:"profile,omitempty"`
	Loading bool      `json:"loading"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// ActorID returns the acting user id, or uuid.Nil for anonymous sessions
func (s *Session) ActorID() uuid.UUID {
	if s == nil || s.User == nil {
		return uuid.Nil
	}
	return s.User.ID
}

// PlanTier returns the caller's plan or the default tier
func (s *Session) PlanTier() PlanTier {
	if s == nil || s.Profile == nil || s.Profile.PlanTier == "" {
		return DefaultPlanTier
	}
	return s.Profile.PlanTier
}
