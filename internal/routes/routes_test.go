package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"emma-client/internal/accounts"
	"emma-client/internal/agents"
	"emma-client/internal/apiclient"
	"emma-client/internal/database"
	"emma-client/internal/featureflags"
	"emma-client/internal/realtime"
	"emma-client/internal/session"
	"emma-client/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRoutes()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRoutes()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/feature-flags", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// Runs every client component against the flag service.
func TestClientAgainstFlagService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewSeededDB(featureflags.Defaults())
	require.NoError(t, err)
	database.DB = db

	srv := httptest.NewServer(SetupRoutes())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	flags := featureflags.NewManager(featureflags.Options{BaseURL: srv.URL})
	authClient := session.NewLocalAuthClient("dev@localhost")
	api := apiclient.New(srv.URL, flags, authClient)
	provider := session.NewProvider(authClient, agents.NewInstaller(api, nil), nil)
	defer provider.Close()
	provider.Start(ctx)

	state := provider.State()
	require.Nil(t, state.Session)
	require.False(t, state.IsLoading)

	// Nothing to list before sign-in.
	service := accounts.NewService(provider, api, nil)
	require.Empty(t, service.List(ctx))

	_, err = authClient.SignIn(ctx)
	require.NoError(t, err)
	require.Equal(t, session.DefaultUserID, provider.State().User.ID)

	task := provider.InstallTask()
	require.NotNil(t, task)
	require.NoError(t, task.Wait(ctx))
	require.Equal(t, session.TaskSucceeded, task.Status())

	list := service.List(ctx)
	require.Len(t, list, 1)
	require.True(t, list[0].PersonalAccount)

	require.True(t, flags.IsEnabled(ctx, featureflags.CustomAgents))
	require.Len(t, flags.GetAllFlags(ctx), len(featureflags.Defaults()))

	wsURL, err := featureflags.EventsURL(srv.URL)
	require.NoError(t, err)
	watchCtx, stopWatch := context.WithCancel(ctx)
	watchErr := make(chan error, 1)
	go func() { watchErr <- flags.Watch(watchCtx, wsURL) }()
	require.Eventually(t, func() bool {
		return realtime.GetHub().Subscribers(realtime.FlagsTopic) > 0
	}, 5*time.Second, 10*time.Millisecond)

	var updated featureflags.Flag
	err = api.Put(ctx, "/feature-flags/"+featureflags.TriggersAPI, map[string]any{"enabled": false}, &updated)
	require.NoError(t, err)
	require.False(t, updated.Enabled)

	require.Eventually(t, func() bool {
		return !flags.IsEnabled(ctx, featureflags.TriggersAPI)
	}, 5*time.Second, 10*time.Millisecond)

	// Unknown flags surface the server's message.
	err = api.Get(ctx, "/feature-flags/does_not_exist", nil)
	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	require.Equal(t, "Feature flag not found", httpErr.Message)

	stopWatch()
	require.ErrorIs(t, <-watchErr, context.Canceled)
}
