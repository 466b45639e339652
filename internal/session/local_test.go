package session

import (
	"context"
	"testing"

	"emma-client/internal/auth"

	"github.com/stretchr/testify/require"
)

func TestLocalAuthClient_IssuesValidTokens(t *testing.T) {
	client := NewLocalAuthClient("dev@localhost")
	s, err := client.SignIn(context.Background())
	require.NoError(t, err)

	claims, err := auth.ValidateToken(s.AccessToken)
	require.NoError(t, err)
	require.Equal(t, DefaultUserID, claims.UserID)
	require.Equal(t, "dev@localhost", claims.Email)
	require.Equal(t, s.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestLocalAuthClient_RequiresSession(t *testing.T) {
	client := NewLocalAuthClient("")
	ctx := context.Background()

	_, err := client.RefreshToken(ctx)
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, client.VerifyMFA(ctx), ErrNoSession)
}

func TestLocalAuthClient_Events(t *testing.T) {
	client := NewLocalAuthClient("")
	ctx := context.Background()

	var events []AuthEvent
	sub := client.OnAuthStateChange(func(_ context.Context, e AuthEvent, _ *Session) {
		events = append(events, e)
	})

	_, _ = client.SignIn(ctx)
	_, _ = client.RefreshToken(ctx)
	_ = client.VerifyMFA(ctx)
	_ = client.SignOut(ctx)
	sub.Unsubscribe()
	sub.Unsubscribe()
	_, _ = client.SignIn(ctx)

	require.Equal(t, []AuthEvent{SignedIn, TokenRefreshed, MFAChallengeVerified, SignedOut}, events)
}
