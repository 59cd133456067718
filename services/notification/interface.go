package notification

import (
	"context"

	notificationRepo "pulse/database/repository/notification"
	"pulse/models"
)

// NotificationService owns the durable notification record lifecycle.
type NotificationService interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	Update(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	List(ctx context.Context, userID string, page, size int64, unreadOnly bool) (*notificationRepo.NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
	Statistics(ctx context.Context, userID string) ([]notificationRepo.KindStats, error)
}

// PreferencesUpdate is a partial patch; nil fields are left untouched.
type PreferencesUpdate struct {
	Notifications      map[string]bool    `json:"notifications,omitempty"`
	EmailNotifications *bool              `json:"emailNotifications,omitempty"`
	PushNotifications  *bool              `json:"pushNotifications,omitempty"`
	QuietHours         *models.QuietHours `json:"quietHours,omitempty"`
	DeviceTokens       []string           `json:"deviceTokens,omitempty"`
}

// PreferencesService owns per-user notification preferences.
type PreferencesService interface {
	GetOrCreate(ctx context.Context, userID string) (*models.UserPreferences, error)
	Update(ctx context.Context, userID string, updates *PreferencesUpdate) (*models.UserPreferences, error)
	IsNotificationEnabled(ctx context.Context, userID string, kind models.Kind) bool
	IsInQuietHours(ctx context.Context, userID string) bool
}

// Enqueuer hands a normalized event to the fan-out queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, event *models.Event) error
}

// PushTransport pushes frames to connected clients; the realtime hub
// implements it.
type PushTransport interface {
	SendToUser(userID string, data []byte) error
	Broadcast(data []byte)
}
