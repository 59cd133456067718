package notification

import (
	"context"
	"encoding/json"

	"pulse/models"
	"pulse/services/push"

	"go.uber.org/zap"
)

// Outbound per-user event names.
const (
	EventNew            = "notification:new"
	EventUpdated        = "notification:updated"
	EventUnreadCount    = "notification:unread-count"
	EventReadSuccess    = "notification:read-success"
	EventAllReadSuccess = "notification:all-read-success"
	EventError          = "notification:error"
)

// envelope is the frame pushed over the live connection.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Dispatcher delivers payloads to recipients. Delivery is fire-and-forget:
// the durable record persisted by the pipeline is the recovery path, so a
// failed push is logged and swallowed. Offline recipients with registered
// device tokens get a best-effort FCM push instead.
type Dispatcher struct {
	Presence    PresenceTracker
	Transport   PushTransport
	Push        push.Sender
	Preferences PreferencesService
	Logger      *zap.Logger
}

// SendToUser pushes payload to the user's private channel tagged with event,
// or no-ops when the user is offline.
func (d *Dispatcher) SendToUser(ctx context.Context, userID, event string, payload any) {
	online, err := d.Presence.IsOnline(ctx, userID)
	if err != nil {
		d.Logger.Error("Presence lookup failed", zap.String("userId", userID), zap.Error(err))
		return
	}

	if !online {
		d.Logger.Debug("User offline, notification stored in DB",
			zap.String("userId", userID), zap.String("event", event))
		if n, ok := payload.(*models.Notification); ok && event == EventNew {
			d.pushOffline(ctx, userID, n)
		}
		return
	}

	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		d.Logger.Error("Failed to marshal push payload",
			zap.String("event", event), zap.Error(err))
		return
	}
	if err := d.Transport.SendToUser(userID, data); err != nil {
		d.Logger.Warn("Live push failed, record remains the fallback",
			zap.String("userId", userID),
			zap.String("event", event),
			zap.Error(err))
		return
	}

	d.Logger.Debug("Pushed event to user",
		zap.String("userId", userID), zap.String("event", event))
}

// Broadcast pushes payload to every connected client, bypassing per-user
// presence tracking. Used for system-wide announcements.
func (d *Dispatcher) Broadcast(event string, payload any) {
	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		d.Logger.Error("Failed to marshal broadcast payload",
			zap.String("event", event), zap.Error(err))
		return
	}
	d.Transport.Broadcast(data)
	d.Logger.Info("Broadcasted event", zap.String("event", event))
}

// pushOffline sends a best-effort mobile push for a fresh notification when
// the user allows it and is not inside quiet hours.
func (d *Dispatcher) pushOffline(ctx context.Context, userID string, n *models.Notification) {
	if d.Push == nil {
		return
	}
	prefs, err := d.Preferences.GetOrCreate(ctx, userID)
	if err != nil {
		d.Logger.Warn("Could not load preferences for offline push",
			zap.String("userId", userID), zap.Error(err))
		return
	}
	if !prefs.PushNotifications || len(prefs.DeviceTokens) == 0 || prefs.IsInQuietHours() {
		return
	}

	data := map[string]string{
		"notificationId": n.ID,
		"kind":           string(n.Kind),
	}
	if err := d.Push.Send(ctx, prefs.DeviceTokens, "New notification", n.Message, data); err != nil {
		d.Logger.Warn("Offline push failed",
			zap.String("userId", userID), zap.Error(err))
	}
}
