package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu   sync.Mutex
	msgs []string
	fail bool
}

func (c *fakeClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return false
	}
	c.msgs = append(c.msgs, string(message))
	return true
}

func (c *fakeClient) Close() {}

func TestHub_BroadcastToTopic(t *testing.T) {
	h := NewHub()
	a, b, other := &fakeClient{}, &fakeClient{fail: true}, &fakeClient{}
	h.Register(FlagsTopic, a)
	h.Register(FlagsTopic, b)
	h.Register("other", other)

	sent, err := h.BroadcastJSON(FlagsTopic, map[string]string{"type": "flags_reset"})
	require.NoError(t, err)
	require.Equal(t, 1, sent)
	require.Equal(t, []string{`{"type":"flags_reset"}`}, a.msgs)
	require.Empty(t, other.msgs)

	h.Unregister(FlagsTopic, a)
	h.Unregister(FlagsTopic, b)
	require.Equal(t, 0, h.Subscribers(FlagsTopic))
	require.Equal(t, 1, h.Subscribers("other"))
}
