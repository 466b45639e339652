package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"emma-client/internal/session"

	"github.com/stretchr/testify/require"
)

type staticFlags map[string]bool

func (f staticFlags) IsEnabled(_ context.Context, name string) bool { return f[name] }

type staticSession struct {
	s   *session.Session
	err error
}

func (s staticSession) GetSession(context.Context) (*session.Session, error) { return s.s, s.err }

type recorded struct {
	method string
	path   string
	auth   string
	ctype  string
	body   string
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			ctype:  r.Header.Get("Content-Type"),
			body:   string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

var signedIn = staticSession{s: &session.Session{AccessToken: "tok-123"}}

func TestGet_DecodesBody(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `{"id":"a-1","name":"EMMA"}`)
	c := New(srv.URL, staticFlags{"custom_agents": true}, signedIn)

	type agent struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	got, err := GetJSON[agent](context.Background(), c, "/agents/a-1")
	require.NoError(t, err)
	require.Equal(t, agent{ID: "a-1", Name: "EMMA"}, got)
	require.Equal(t, http.MethodGet, rec.method)
	require.Equal(t, "/agents/a-1", rec.path)
	require.Equal(t, "application/json", rec.ctype)
	require.Equal(t, "Bearer tok-123", rec.auth)
}

func TestHeaders_BearerRequiresFlagAndSession(t *testing.T) {
	tests := []struct {
		name     string
		flags    FlagChecker
		sessions SessionSource
		want     string
	}{
		{"flag on with session", staticFlags{"custom_agents": true}, signedIn, "Bearer tok-123"},
		{"flag off", staticFlags{"custom_agents": false}, signedIn, ""},
		{"no session", staticFlags{"custom_agents": true}, staticSession{}, ""},
		{"empty token", staticFlags{"custom_agents": true}, staticSession{s: &session.Session{}}, ""},
		{"session error", staticFlags{"custom_agents": true}, staticSession{err: errors.New("boom")}, ""},
		{"no collaborators", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := newRecordingServer(t, http.StatusOK, `{}`)
			c := New(srv.URL, tt.flags, tt.sessions)
			require.NoError(t, c.Get(context.Background(), "/ping", nil))
			require.Equal(t, tt.want, rec.auth)
			require.Equal(t, "application/json", rec.ctype)
		})
	}
}

func TestPostPut_SendJSON(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusCreated, `{"ok":true}`)
	c := New(srv.URL, nil, nil)

	type result struct {
		OK bool `json:"ok"`
	}
	got, err := PostJSON[result](context.Background(), c, "/threads", map[string]string{"title": "hi"})
	require.NoError(t, err)
	require.True(t, got.OK)
	require.Equal(t, http.MethodPost, rec.method)
	require.JSONEq(t, `{"title":"hi"}`, rec.body)

	got, err = PutJSON[result](context.Background(), c, "/threads/1", map[string]int{"n": 2})
	require.NoError(t, err)
	require.True(t, got.OK)
	require.Equal(t, http.MethodPut, rec.method)
	require.JSONEq(t, `{"n":2}`, rec.body)

	require.NoError(t, c.Post(context.Background(), "/threads", nil, nil))
	require.Empty(t, rec.body)
}

func TestDelete(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusNoContent, ``)
	c := New(srv.URL, nil, nil)
	require.NoError(t, c.Delete(context.Background(), "/threads/1"))
	require.Equal(t, http.MethodDelete, rec.method)
}

func TestGet_NotFoundWithServerMessage(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusNotFound, `{"message":"thread not found"}`)
	c := New(srv.URL, nil, nil)

	err := c.Get(context.Background(), "/threads/404", nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	require.Contains(t, err.Error(), "thread not found")
}

func TestGet_NotFoundWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := New(srv.URL, nil, nil)

	err := c.Get(context.Background(), "/missing", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 404")
	require.Equal(t, "HTTP 404: Not Found", err.Error())
}

func TestError_CarriesCode(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusForbidden, `{"message":"permission denied for function get_accounts","code":"42501"}`)
	c := New(srv.URL, nil, nil)

	err := c.Delete(context.Background(), "/rpc/get_accounts")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, "42501", httpErr.Code)
}

func TestNoBaseURL(t *testing.T) {
	c := New("", nil, nil)
	require.ErrorIs(t, c.Get(context.Background(), "/x", nil), ErrNoBaseURL)
}

func TestPost_UnencodableBody(t *testing.T) {
	c := New("http://127.0.0.1:1", nil, nil)
	err := c.Post(context.Background(), "/x", map[string]any{"f": func() {}}, nil)
	var unsupported *json.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
}
