package preferencesRepo

import (
	"context"

	"pulse/database"
	"pulse/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type PreferencesRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error)
	Save(ctx context.Context, prefs *models.UserPreferences) error
	EnsureIndexes() error
}

type mongoPreferencesRepo struct {
	coll *mongo.Collection
}

// NewMongoPreferencesRepo returns a PreferencesRepository backed by MongoDB.
func NewMongoPreferencesRepo() PreferencesRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoPreferencesRepo{
		coll: db.Collection("user_preferences"),
	}
}
