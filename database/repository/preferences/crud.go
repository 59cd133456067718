package preferencesRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulse/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a user has no stored preferences yet.
var ErrNotFound = errors.New("preferences not found")

// GetByUserID returns the stored preferences for a user.
func (r *mongoPreferencesRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&prefs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

// Save upserts a user's preferences keyed by userId.
func (r *mongoPreferencesRepo) Save(ctx context.Context, prefs *models.UserPreferences) error {
	if prefs.ID == "" {
		prefs.ID = uuid.New().String()
	}
	now := time.Now()
	if prefs.CreatedAt.IsZero() {
		prefs.CreatedAt = now
	}
	prefs.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"userId": prefs.UserID}, prefs, opts)
	return err
}

// EnsureIndexes creates the necessary indexes on the user_preferences collection.
func (r *mongoPreferencesRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_userId"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create preferences indexes: %w", err)
	}
	return nil
}
