// Package session tracks the signed-in user of the application. A Provider
// mirrors the state of an external AuthClient and follows its auth-state
// events; consumers read it through a context.Context scope.
package session

import (
	"context"
	"time"
)

// User is the identity attached to a session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an authenticated session issued by the auth service.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// AuthEvent names a change reported by the auth service.
type AuthEvent string

const (
	SignedIn             AuthEvent = "SIGNED_IN"
	SignedOut            AuthEvent = "SIGNED_OUT"
	TokenRefreshed       AuthEvent = "TOKEN_REFRESHED"
	MFAChallengeVerified AuthEvent = "MFA_CHALLENGE_VERIFIED"
)

// AuthStateHandler receives every auth-state change with the session that is
// current after it (nil once signed out).
type AuthStateHandler func(ctx context.Context, event AuthEvent, s *Session)

// Subscription is returned by OnAuthStateChange.
type Subscription interface {
	Unsubscribe()
}

// AuthClient is the external identity provider.
type AuthClient interface {
	GetSession(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(handler AuthStateHandler) Subscription
}

// AgentInstaller provisions the default agent for a freshly signed-in user.
type AgentInstaller interface {
	InstallDefaultAgent(ctx context.Context, userID string, createdAt time.Time) error
}

// State is a point-in-time view of a Provider.
type State struct {
	Session   *Session
	User      *User
	IsLoading bool
}
