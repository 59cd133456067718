package notificationRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulse/models"
)

// GetByUserID returns one page of a user's notifications, newest first.
func (r *mongoNotificationRepo) GetByUserID(ctx context.Context, userID string, page, size int64, unreadOnly bool) (*NotificationPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["read"] = false
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page * size).
		SetLimit(size)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0, size)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	return &NotificationPage{
		Notifications: notifications,
		TotalPages:    totalPages,
		CurrentPage:   page,
		Total:         total,
	}, nil
}

// CountUnread returns how many unread notifications a user has.
func (r *mongoNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}

// Statistics aggregates a user's notifications per kind with unread counts.
func (r *mongoNotificationRepo) Statistics(ctx context.Context, userID string) ([]KindStats, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"userId": userID}},
		{"$group": bson.M{
			"_id":   "$kind",
			"count": bson.M{"$sum": 1},
			"unread": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$read", false}}, 1, 0},
			}},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []KindStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
