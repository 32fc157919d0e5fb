// Package hub tracks which live connections belong to which authenticated
// username and fans events out to them. Delivery is best-effort per
// connection: one unreachable client never blocks or fails the rest.
package hub

import (
	"log"
	"sync"
)

// Hub is the connection registry and broadcast engine. A username may own
// several simultaneous connections (multi-device); fan-out targets all of
// them independently, in no particular order.
type Hub struct {
	mu     sync.RWMutex
	byUser map[string]map[*Client]struct{}
}

func New() *Hub {
	return &Hub{byUser: make(map[string]map[*Client]struct{})}
}

// Bind associates the client with a username. Idempotent; rebinding to a new
// username moves the client.
func (h *Hub) Bind(username string, c *Client) {
	if prev := c.Username(); prev != "" && prev != username {
		h.Unbind(c)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.byUser[username]
	if !ok {
		set = make(map[*Client]struct{})
		h.byUser[username] = set
	}
	set[c] = struct{}{}
	c.setUsername(username)
}

// Unbind removes the client from its username's connection set. It returns
// the username and whether that was the user's last live connection (the
// user went offline). The user stays registered, just unreachable.
func (h *Hub) Unbind(c *Client) (username string, offline bool) {
	username = c.Username()
	if username == "" {
		return "", false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.byUser[username]
	if !ok {
		return username, true
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.byUser, username)
		return username, true
	}
	return username, false
}

// ConnectionsOf returns the current live connections of a username, empty if
// the user is offline.
func (h *Hub) ConnectionsOf(username string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.byUser[username]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Broadcast delivers message to every connection of every listed member.
// A connection whose buffer is full has the message dropped with a log line;
// the remaining deliveries proceed regardless.
func (h *Hub) Broadcast(members []string, message []byte) {
	for _, username := range members {
		for _, c := range h.ConnectionsOf(username) {
			if !c.Send(message) {
				log.Printf("dropping message for %s (connection %s): send buffer full or closed", username, c.ID)
			}
		}
	}
}
