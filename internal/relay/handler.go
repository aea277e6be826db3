package relay

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Handler upgrades HTTP requests to WebSocket connections and registers
// them with the hub.
type Handler struct {
	hub           *Hub
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a WebSocket handler for the hub.
func NewHandler(hub *Hub, allowedOrigin string, isDev bool) *Handler {
	return &Handler{hub: hub, allowedOrigin: allowedOrigin, isDev: isDev}
}

// ServeHTTP implements http.Handler for the WebSocket upgrade. The
// connection stays registered until the client closes it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept relay WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}

	clientID := uuid.NewString()
	h.hub.register(clientID, ws)
	defer h.hub.unregister(clientID)
	defer func() {
		_ = ws.Close(websocket.StatusNormalClosure, "connection ended")
	}()

	h.readLoop(r.Context(), ws, clientID)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("Relay WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// readLoop consumes inbound messages until the client disconnects. Inbound
// traffic is echoed back; the relay's real payloads only flow outbound.
func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, clientID string) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("Relay WebSocket closed by client", "client_id", clientID)
			} else {
				slog.Warn("Relay WebSocket read error", "error", err, "client_id", clientID)
			}
			return
		}
		if len(message) == 0 {
			continue
		}
		if err := ws.Write(ctx, websocket.MessageText, append([]byte("Echo: "), message...)); err != nil {
			slog.Debug("Failed to echo relay message", "error", err, "client_id", clientID)
			return
		}
	}
}
