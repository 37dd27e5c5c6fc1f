// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ailink-app/diagnostico/models"
)

// sendBuffer is the per-client outbound queue depth. A client that falls
// this far behind starts dropping messages rather than stalling broadcasts.
const sendBuffer = 32

// DefaultHeartbeatInterval is how often the hub emits heartbeat frames.
const DefaultHeartbeatInterval = 30 * time.Second

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected WebSocket clients and fans status events out to
// all of them. Clients filter by userSessionId on their side.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	upgrader websocket.Upgrader

	// HeartbeatInterval controls RunHeartbeat's ticker. Tests shorten it.
	HeartbeatInterval time.Duration
}

// NewHub returns an empty hub ready to accept connections.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin enforcement happens at the proxy; the API
			// itself accepts any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		HeartbeatInterval: DefaultHeartbeatInterval,
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every connected client. Clients whose send
// queue is full are skipped; slow consumers never block the caller.
func (h *Hub) Broadcast(msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal WebSocket message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slog.Warn("Dropping message for slow WebSocket client", "type", msg.Type)
		}
	}
}

// RunHeartbeat broadcasts heartbeat frames until ctx is cancelled. Run it
// in its own goroutine.
func (h *Hub) RunHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(h.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Broadcast(models.NewHeartbeat())
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and registers
// the client with the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	slog.Info("WebSocket client connected", "clients", h.ClientCount())

	go c.writeLoop()

	// Welcome frame so clients can confirm the channel before submitting.
	if welcome, err := json.Marshal(models.NewConnectionMessage("Conexión establecida")); err == nil {
		c.send <- welcome
	}

	h.readLoop(c)
}

// readLoop handles inbound frames until the connection drops, then
// unregisters the client.
func (h *Hub) readLoop(c *client) {
	defer func() {
		// close under the lock so a concurrent Broadcast can never
		// send on a closed channel
		h.mu.Lock()
		delete(h.clients, c)
		close(c.send)
		h.mu.Unlock()
		slog.Info("WebSocket client disconnected", "clients", h.ClientCount())
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		if msg.Type == models.TypePing {
			if pong, err := json.Marshal(models.NewPong()); err == nil {
				select {
				case c.send <- pong:
				default:
				}
			}
		}
		// Anything else from the client is ignored.
	}
}

// writeLoop drains the send queue onto the wire. It owns all writes to
// the connection.
func (c *client) writeLoop() {
	defer c.conn.Close()

	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
