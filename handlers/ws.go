package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pulse/realtime"
	"pulse/services/notification"
	"pulse/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsCommand is what a connected client may send back over the socket.
type wsCommand struct {
	Action         string `json:"action"`
	NotificationID string `json:"notificationId"`
}

// WSHandler upgrades client connections and bridges them into presence
// tracking and live delivery.
type WSHandler struct {
	Hub           *realtime.Hub
	Presence      notification.PresenceTracker
	Notifications notification.NotificationService
	Dispatcher    *notification.Dispatcher
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *realtime.Hub, presence notification.PresenceTracker, svc notification.NotificationService, dispatcher *notification.Dispatcher) *WSHandler {
	return &WSHandler{
		Hub:           hub,
		Presence:      presence,
		Notifications: svc,
		Dispatcher:    dispatcher,
	}
}

// ConnectHandler authenticates via the token query parameter, upgrades the
// connection, and serves it until the client goes away.
func (h *WSHandler) ConnectHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Missing token", "")
		return
	}
	userID, err := utils.ExtractUserIDFromToken(token)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid token", "")
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	sessionID := uuid.New().String()
	client := realtime.NewClient(userID, sessionID, conn)
	h.Hub.Register(client)
	go client.WritePump()

	ctx := context.Background()
	if err := h.Presence.MarkOnline(ctx, userID, sessionID); err != nil {
		zap.L().Error("Failed to mark user online", zap.String("userId", userID), zap.Error(err))
	}
	zap.L().Info("User connected",
		zap.String("userId", userID), zap.String("sessionId", sessionID))

	h.sendUnreadCount(ctx, userID)

	client.ReadLoop(func(raw []byte) {
		h.handleCommand(ctx, userID, raw)
	})

	// Only a real disconnect clears presence; an evicted session leaves the
	// newer connection's state alone.
	if h.Hub.Current(userID) == client {
		if err := h.Presence.MarkOffline(ctx, userID); err != nil {
			zap.L().Error("Failed to mark user offline", zap.String("userId", userID), zap.Error(err))
		}
		zap.L().Info("User disconnected", zap.String("userId", userID))
	}
	client.Close()
}

func (h *WSHandler) handleCommand(ctx context.Context, userID string, raw []byte) {
	var cmd wsCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return
	}

	switch cmd.Action {
	case "markRead":
		if _, err := h.Notifications.MarkRead(ctx, userID, cmd.NotificationID); err != nil {
			h.Dispatcher.SendToUser(ctx, userID, notification.EventError,
				gin.H{"message": "Failed to mark as read"})
			return
		}
		h.Dispatcher.SendToUser(ctx, userID, notification.EventReadSuccess,
			gin.H{"notificationId": cmd.NotificationID})
		h.sendUnreadCount(ctx, userID)

	case "markAllRead":
		if err := h.Notifications.MarkAllRead(ctx, userID); err != nil {
			h.Dispatcher.SendToUser(ctx, userID, notification.EventError,
				gin.H{"message": "Failed to mark all as read"})
			return
		}
		h.Dispatcher.SendToUser(ctx, userID, notification.EventAllReadSuccess, gin.H{})
		h.Dispatcher.SendToUser(ctx, userID, notification.EventUnreadCount, gin.H{"count": 0})
	}
}

func (h *WSHandler) sendUnreadCount(ctx context.Context, userID string) {
	count, err := h.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		zap.L().Error("Failed to fetch unread count", zap.String("userId", userID), zap.Error(err))
		return
	}
	h.Dispatcher.SendToUser(ctx, userID, notification.EventUnreadCount, gin.H{"count": count})
}
