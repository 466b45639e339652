package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"emma-client/internal/auth"

	"github.com/google/uuid"
)

// DefaultUserID is the single user of a local, authentication-free setup.
const DefaultUserID = "local-user"

var ErrNoSession = errors.New("session: not signed in")

// LocalAuthClient is an in-process AuthClient for single-user local
// development. It signs real access tokens so the backend's bearer checks
// still pass.
type LocalAuthClient struct {
	user User

	mu       sync.Mutex
	session  *Session
	handlers map[uint64]AuthStateHandler
	nextID   uint64
}

// NewLocalAuthClient creates a signed-out client for DefaultUserID.
func NewLocalAuthClient(email string) *LocalAuthClient {
	return &LocalAuthClient{
		user: User{
			ID:        DefaultUserID,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		},
		handlers: make(map[uint64]AuthStateHandler),
	}
}

func (c *LocalAuthClient) GetSession(context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, nil
}

// SignIn starts a new session and emits SIGNED_IN.
func (c *LocalAuthClient) SignIn(ctx context.Context) (*Session, error) {
	s, err := c.issue()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	c.emit(ctx, SignedIn, s)
	return s, nil
}

// RefreshToken replaces the current session with a freshly signed one and
// emits TOKEN_REFRESHED.
func (c *LocalAuthClient) RefreshToken(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	signedIn := c.session != nil
	c.mu.Unlock()
	if !signedIn {
		return nil, ErrNoSession
	}

	s, err := c.issue()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	c.emit(ctx, TokenRefreshed, s)
	return s, nil
}

// VerifyMFA emits MFA_CHALLENGE_VERIFIED for the current session. Local
// sessions have no second factor, so the challenge always passes.
func (c *LocalAuthClient) VerifyMFA(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return ErrNoSession
	}
	c.emit(ctx, MFAChallengeVerified, s)
	return nil
}

// SignOut drops the session and emits SIGNED_OUT.
func (c *LocalAuthClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	c.emit(ctx, SignedOut, nil)
	return nil
}

func (c *LocalAuthClient) OnAuthStateChange(handler AuthStateHandler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	return &localSubscription{client: c, id: id}
}

func (c *LocalAuthClient) issue() (*Session, error) {
	token, expiresAt, err := auth.GenerateToken(c.user.ID, c.user.Email)
	if err != nil {
		return nil, err
	}
	user := c.user
	return &Session{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    expiresAt,
		User:         &user,
	}, nil
}

// emit runs the handlers synchronously, outside the client lock.
func (c *LocalAuthClient) emit(ctx context.Context, event AuthEvent, s *Session) {
	c.mu.Lock()
	handlers := make([]AuthStateHandler, 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(ctx, event, s)
	}
}

type localSubscription struct {
	client *LocalAuthClient
	id     uint64
	once   sync.Once
}

func (s *localSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.mu.Lock()
		delete(s.client.handlers, s.id)
		s.client.mu.Unlock()
	})
}
