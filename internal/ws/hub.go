// Package ws pushes newly derived notifications to connected browser
// clients over websockets. One connection per user; broadcast
// notifications (no recipient) go to every connected client.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/escolalib/biblio-api/internal/domain"
)

// Client is a single websocket connection owned by a user.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub tracks connected clients and routes notifications to them.
// It satisfies service.NotificationPublisher.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*Client
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
// If logger is nil, a default logger will be used.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		logger:  logger.With(slog.String("component", "ws_hub")),
	}
}

// Register adds a client, replacing any previous connection for the same
// user.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.clients[client.UserID]; ok {
		close(prev.Send)
	}
	h.clients[client.UserID] = client
}

// Unregister removes a client if it is still the active connection for its
// user.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.UserID]; ok && current == client {
		delete(h.clients, client.UserID)
		close(client.Send)
	}
}

// Publish implements service.NotificationPublisher. It never blocks: a
// client with a full send buffer is dropped rather than holding up the
// deriver.
func (h *Hub) Publish(n *domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("failed to marshal notification",
			slog.String("notification_id", n.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n.UserID != nil {
		h.send(*n.UserID, payload)
		return
	}

	// Broadcast notification: deliver to everyone connected.
	for userID := range h.clients {
		h.send(userID, payload)
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	client, ok := h.clients[userID]
	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		close(client.Send)
		delete(h.clients, userID)
		h.logger.Warn("dropped slow websocket client",
			slog.String("user_id", userID.String()))
	}
}
