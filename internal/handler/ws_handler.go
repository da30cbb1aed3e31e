package handler

import (
	"context"
	"net/http"
	"time"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/logging"
	"trainvoc-updates/internal/middleware"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/internal/websocket"
	"trainvoc-updates/pkg/jwt"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

const statusRequestTimeout = 5 * time.Second

type WebSocketHandler struct {
	manager   *websocket.Manager
	jwtSecret string
	upgrader  ws.Upgrader
	log       *logging.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, jwtSecret string, readBufferSize, writeBufferSize int, log *logging.Logger) *WebSocketHandler {
	if log == nil {
		log = logging.Discard()
	}
	return &WebSocketHandler{
		manager:   manager,
		jwtSecret: jwtSecret,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log.With("websocket"),
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}

	if token == "" {
		h.log.Warn("missing authorization token")
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	claims, err := jwt.ValidateToken(token, h.jwtSecret)
	if err != nil {
		h.log.Warn("token validation failed: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("failed to upgrade connection: %v", err)
		return
	}

	client := websocket.NewClient(uuid.New().String(), claims.DeviceID, conn, h.manager)
	if !h.manager.Connect(client) {
		h.log.Warn("manager stopped, dropping connection for device %s", claims.DeviceID)
		conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// CurrentNotes is the source of the notes pushed to devices that have not
// seen the current version yet.
type CurrentNotes interface {
	GetUpdateNotes() *domain.UpdateNotes
}

// WebSocketMessageHandler answers the requests devices send over their socket.
type WebSocketMessageHandler struct {
	preferences *service.PreferenceService
	notes       CurrentNotes
	log         *logging.Logger
}

func NewWebSocketMessageHandler(preferences *service.PreferenceService, notes CurrentNotes, log *logging.Logger) *WebSocketMessageHandler {
	if log == nil {
		log = logging.Discard()
	}
	return &WebSocketMessageHandler{
		preferences: preferences,
		notes:       notes,
		log:         log.With("websocket"),
	}
}

func (h *WebSocketMessageHandler) HandleWebSocketMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypeStatusRequest:
		return h.handleStatusRequest(client)

	case websocket.TypePing:
		return client.Reply(websocket.TypePong, nil)

	default:
		h.log.Warn("unknown message type: %s", msg.Type)
		return client.Reply(websocket.TypeError, &websocket.ErrorPayload{
			Error: "unknown message type",
		})
	}
}

// handleStatusRequest replies with the device's status and, when the notes
// should be shown, follows up with the notes themselves.
func (h *WebSocketMessageHandler) handleStatusRequest(client *websocket.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), statusRequestTimeout)
	defer cancel()

	status, err := h.preferences.Status(ctx, client.DeviceID)
	if err != nil {
		h.log.Error("status for %s: %v", client.DeviceID, err)
		return client.Reply(websocket.TypeError, &websocket.ErrorPayload{
			Error: "failed to load update status",
		})
	}

	if err := client.Reply(websocket.TypeStatus, &websocket.StatusPayload{Status: status}); err != nil {
		return err
	}
	if !status.ShouldShow || h.notes == nil {
		return nil
	}
	return client.SendUpdateNotes(h.notes.GetUpdateNotes())
}
