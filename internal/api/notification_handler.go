package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/escolalib/biblio-api/internal/api/middleware"
	"github.com/escolalib/biblio-api/internal/api/shared"
	"github.com/escolalib/biblio-api/internal/service"
	"github.com/escolalib/biblio-api/internal/ws"
)

// wsSendBuffer is the per-client outbound queue; a client that falls this far
// behind is dropped by the hub.
const wsSendBuffer = 16

// NotificationHandler handles notification API requests, including the
// websocket endpoint that streams newly derived notices.
type NotificationHandler struct {
	notificationService service.NotificationService
	hub                 *ws.Hub
	upgrader            websocket.Upgrader
}

// NewNotificationHandler creates a new NotificationHandler with the given
// dependencies. hub may be nil when websocket push is not configured.
func NewNotificationHandler(notificationService service.NotificationService, hub *ws.Hub) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		hub:                 hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// List handles GET /notifications. It returns the authenticated user's
// notifications plus broadcasts, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	notifications, err := h.notificationService.ListForUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// Derive handles POST /notifications/derive. Clients call it on login; the
// background notifier covers the rest of the day. Safe to call repeatedly.
func (h *NotificationHandler) Derive(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.Derive(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Serve handles GET /notifications/ws. It upgrades the connection and
// registers the client with the hub until the peer disconnects.
func (h *NotificationHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Websocket push is not enabled")
		return
	}

	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, wsSendBuffer),
	}
	h.hub.Register(client)

	go h.writeLoop(client)
	go h.readLoop(client)
}

// writeLoop forwards hub payloads to the peer until the send channel closes.
func (h *NotificationHandler) writeLoop(client *ws.Client) {
	defer func() {
		_ = client.Conn.Close()
	}()

	for payload := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readLoop drains the connection so pings and close frames are processed,
// unregistering the client when the peer goes away.
func (h *NotificationHandler) readLoop(client *ws.Client) {
	defer func() {
		h.hub.Unregister(client)
		_ = client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
