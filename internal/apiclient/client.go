// Package apiclient is a small JSON REST client for the backend API. It signs
// requests with the current session's access token when the custom_agents
// flag is on.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"emma-client/internal/featureflags"
	"emma-client/internal/session"

	"go.uber.org/zap"
)

var ErrNoBaseURL = errors.New("apiclient: backend URL not configured")

// FlagChecker resolves feature flags.
type FlagChecker interface {
	IsEnabled(ctx context.Context, name string) bool
}

// SessionSource yields the session whose token authorizes requests.
type SessionSource interface {
	GetSession(ctx context.Context) (*session.Session, error)
}

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode int
	// Code is the server's machine-readable error code, if it sent one.
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

type Client struct {
	baseURL  string
	flags    FlagChecker
	sessions SessionSource
	http     *http.Client
	log      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for baseURL. flags and sessions may be nil, in which
// case requests are never signed.
func New(baseURL string, flags FlagChecker, sessions SessionSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		flags:    flags,
		sessions: sessions,
		http:     http.DefaultClient,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get decodes the JSON body of GET {baseURL}{path} into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON (omitted when nil) and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func GetJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.Get(ctx, path, &out)
	return out, err
}

func PostJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Post(ctx, path, body, &out)
	return out, err
}

func PutJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Put(ctx, path, body, &out)
	return out, err
}

func (c *Client) headers(ctx context.Context) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")

	if c.flags == nil || c.sessions == nil {
		return h
	}
	if !c.flags.IsEnabled(ctx, featureflags.CustomAgents) {
		return h
	}
	s, err := c.sessions.GetSession(ctx)
	if err != nil {
		c.log.Debug("no session for request headers", zap.Error(err))
		return h
	}
	if s != nil && s.AccessToken != "" {
		h.Set("Authorization", "Bearer "+s.AccessToken)
	}
	return h
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return ErrNoBaseURL
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header = c.headers(ctx)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, path, err)
	}
	return nil
}

func newHTTPError(resp *http.Response) *HTTPError {
	var payload struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload)

	e := &HTTPError{StatusCode: resp.StatusCode, Code: payload.Code, Message: payload.Message}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return e
}
