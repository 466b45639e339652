package featureflags

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventsURL derives the websocket URL of the change stream from a backend
// base URL.
func EventsURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("featureflags: unsupported scheme %q", u.Scheme)
	}
	u.Path += "/feature-flags/events"
	return u.String(), nil
}

// Watch follows the flag change stream at wsURL and invalidates cached answers
// as changes arrive. It blocks until ctx is cancelled or the stream fails.
func (m *Manager) Watch(ctx context.Context, wsURL string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("featureflags: dial change stream: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		var evt Event
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return fmt.Errorf("featureflags: read change stream: %w", err)
		}
		m.apply(evt)
	}
}

func (m *Manager) apply(evt Event) {
	switch evt.Type {
	case EventFlagUpdated, EventFlagDeleted:
		m.log.Debug("feature flag changed", zap.String("type", evt.Type), zap.String("flag", evt.FlagName))
		m.InvalidateFlag(evt.FlagName)
	case EventFlagsReset:
		m.log.Debug("feature flags reset")
		m.ClearCache()
	default:
		m.log.Debug("ignoring unknown flag event", zap.String("type", evt.Type))
	}
}
