package notification

import (
	"context"
	"errors"

	preferencesRepo "pulse/database/repository/preferences"
	"pulse/models"

	"go.uber.org/zap"
)

// DefaultPreferencesService is the production implementation backed by the
// preferences repository.
type DefaultPreferencesService struct {
	Repo   preferencesRepo.PreferencesRepository
	Logger *zap.Logger
}

// GetOrCreate returns a user's preferences, creating and storing the
// defaults on first access.
func (s *DefaultPreferencesService) GetOrCreate(ctx context.Context, userID string) (*models.UserPreferences, error) {
	prefs, err := s.Repo.GetByUserID(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, preferencesRepo.ErrNotFound) {
		return nil, err
	}

	s.Logger.Info("Creating default preferences", zap.String("userId", userID))
	prefs = models.DefaultPreferences(userID)
	if err := s.Repo.Save(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Update applies a partial patch on top of the user's stored preferences.
func (s *DefaultPreferencesService) Update(ctx context.Context, userID string, updates *PreferencesUpdate) (*models.UserPreferences, error) {
	existing, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if updates.Notifications != nil {
		existing.Notifications = updates.Notifications
	}
	if updates.EmailNotifications != nil {
		existing.EmailNotifications = *updates.EmailNotifications
	}
	if updates.PushNotifications != nil {
		existing.PushNotifications = *updates.PushNotifications
	}
	if updates.QuietHours != nil {
		existing.QuietHours = *updates.QuietHours
	}
	if updates.DeviceTokens != nil {
		existing.DeviceTokens = updates.DeviceTokens
	}

	if err := s.Repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// IsNotificationEnabled reports whether the user accepts the given kind.
// Lookup failures err on the side of delivery.
func (s *DefaultPreferencesService) IsNotificationEnabled(ctx context.Context, userID string, kind models.Kind) bool {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return true
	}
	return prefs.IsEnabled(kind)
}

// IsInQuietHours reports whether the user is currently inside quiet hours.
func (s *DefaultPreferencesService) IsInQuietHours(ctx context.Context, userID string) bool {
	prefs, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return false
	}
	return prefs.IsInQuietHours()
}
