package realtime

import (
	"encoding/json"
	"sync"
)

// FlagsTopic carries feature flag change events.
const FlagsTopic = "feature-flags"

// Client is a single subscriber connection. The network side lives in the
// websocket handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub fans events out to the clients subscribed to a topic.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[Client]struct{})}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns the process-wide hub.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register subscribes a client to a topic.
func (h *Hub) Register(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
}

// Unregister removes a client; empty topics are dropped.
func (h *Hub) Unregister(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.topics[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Subscribers returns how many clients follow a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends a message to every client of a topic and returns how many
// accepted it. Failed clients are cleaned up by their handler.
func (h *Hub) Broadcast(topic string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.topics[topic] {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// BroadcastJSON encodes v and broadcasts it.
func (h *Hub) BroadcastJSON(topic string, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(topic, payload), nil
}
