package notificationRepo

import (
	"context"
	"errors"
	"time"

	"pulse/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a notification does not exist or belongs to
// another user.
var ErrNotFound = errors.New("notification not found")

// Create inserts a new notification and returns its ID.
func (r *mongoNotificationRepo) Create(ctx context.Context, n *models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// Update replaces an existing notification document in place.
func (r *mongoNotificationRepo) Update(ctx context.Context, n *models.Notification) error {
	n.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": n.ID}, n)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns a notification by its ID.
func (r *mongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// MarkRead flags a single notification as read, checking ownership.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "userId": userID}, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// MarkAllRead flags every unread notification of a user as read.
func (r *mongoNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	_, err := r.coll.UpdateMany(ctx, bson.M{"userId": userID, "read": false}, update)
	return err
}

// DeleteByID removes a notification, checking ownership.
func (r *mongoNotificationRepo) DeleteByID(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByUser removes every notification a user has.
func (r *mongoNotificationRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// DeleteExpired removes notifications past their expiry. The TTL index on
// expiresAt normally handles this; the purge job calls it as a backstop.
func (r *mongoNotificationRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteReadOlderThan removes read notifications created more than the given
// number of days ago.
func (r *mongoNotificationRepo) DeleteReadOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res, err := r.coll.DeleteMany(ctx, bson.M{"read": true, "createdAt": bson.M{"$lte": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
