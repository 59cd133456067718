package notificationRepo

import (
	"context"

	"pulse/database"
	"pulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// KindStats is one row of the per-kind statistics aggregation.
type KindStats struct {
	Kind   models.Kind `bson:"_id" json:"kind"`
	Count  int64       `bson:"count" json:"count"`
	Unread int64       `bson:"unread" json:"unread"`
}

// NotificationPage is one page of a user's notifications.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	TotalPages    int64                 `json:"totalPages"`
	CurrentPage   int64                 `json:"currentPage"`
	Total         int64                 `json:"totalNotifications"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	Update(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	GetByUserID(ctx context.Context, userID string, page, size int64, unreadOnly bool) (*NotificationPage, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteByID(ctx context.Context, userID, id string) error
	DeleteAllByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	DeleteReadOlderThan(ctx context.Context, days int) (int64, error)
	Statistics(ctx context.Context, userID string) ([]KindStats, error)
	EnsureIndexes() error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoNotificationRepo{
		coll: db.Collection("notifications"),
	}
}
