// Package relay fans out command strings to connected remote clients over
// WebSocket. Delivery is fire-and-forget: messages published with no
// listeners are dropped.
package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// forwardWait bounds how long the forward loop blocks on the publish queue
// before re-checking for shutdown.
const forwardWait = 250 * time.Millisecond

// client is one registered WebSocket listener.
type client struct {
	id   string
	conn *websocket.Conn
}

// Hub is the publish/subscribe fan-out. One inbound queue feeds a forward
// loop that delivers to every registered client; a separate liveness loop
// pings clients and removes the ones that fail.
type Hub struct {
	pingInterval time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending []string
	clients map[string]*client
}

// NewHub creates a hub with the given ping interval.
func NewHub(pingInterval time.Duration) *Hub {
	h := &Hub{
		pingInterval: pingInterval,
		clients:      make(map[string]*client),
	}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Publish enqueues a message for delivery to all connected clients. It
// never blocks on slow listeners.
func (h *Hub) Publish(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, msg)
	h.cond.Signal()
}

// ClientCount returns the number of registered listeners.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// register adds a listener and returns its ID.
func (h *Hub) register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = &client{id: id, conn: conn}
	slog.Info("Relay client connected", "client_id", id, "clients", len(h.clients))
}

// unregister removes a listener.
func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		slog.Info("Relay client disconnected", "client_id", id, "clients", len(h.clients))
	}
}

// snapshot returns the current listeners. Delivery happens outside the hub
// lock so one slow client cannot stall registration.
func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// dequeue removes the oldest pending message, waiting up to forwardWait.
func (h *Hub) dequeue() (string, bool) {
	deadline := time.Now().Add(forwardWait)

	h.mu.Lock()
	defer h.mu.Unlock()
	for len(h.pending) == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", false
		}
		timer := time.AfterFunc(remaining, h.cond.Broadcast)
		h.cond.Wait()
		timer.Stop()
	}

	msg := h.pending[0]
	h.pending = h.pending[1:]
	return msg, true
}

// Run is the forward loop: it drains the publish queue and sends each
// message to every registered client. A failed send is logged and does not
// affect delivery to the others.
func (h *Hub) Run(ctx context.Context) {
	slog.Info("Relay forward loop started")
	for {
		msg, ok := h.dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				slog.Info("Relay forward loop stopped", "reason", ctx.Err())
				return
			default:
				continue
			}
		}

		clients := h.snapshot()
		if len(clients) == 0 {
			slog.Debug("No relay clients connected, dropping message")
			continue
		}
		for _, c := range clients {
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.conn.Write(writeCtx, websocket.MessageText, []byte(msg))
			cancel()
			if err != nil {
				slog.Warn("Failed to forward message to relay client", "error", err, "client_id", c.id)
			}
		}
	}
}

// RunPings probes each client on the ping interval and removes the ones
// that fail, independent of the forward loop.
func (h *Hub) RunPings(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Relay liveness loop stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			for _, c := range h.snapshot() {
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := c.conn.Ping(pingCtx)
				cancel()
				if err != nil {
					slog.Warn("Relay client failed liveness probe, removing", "error", err, "client_id", c.id)
					_ = c.conn.Close(websocket.StatusGoingAway, "liveness probe failed")
					h.unregister(c.id)
				}
			}
		}
	}
}
