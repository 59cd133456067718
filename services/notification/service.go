package notification

import (
	"context"
	"time"

	notificationRepo "pulse/database/repository/notification"
	"pulse/models"

	"go.uber.org/zap"
)

// defaultExpiry is how long a notification lives before the TTL index
// reaps it.
const defaultExpiry = 90 * 24 * time.Hour

// DefaultNotificationService is the production implementation backed by the
// notification repository.
type DefaultNotificationService struct {
	Repo   notificationRepo.NotificationRepository
	Logger *zap.Logger
}

// Create persists a fresh notification, defaulting its expiry.
func (s *DefaultNotificationService) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.ExpiresAt.IsZero() {
		n.ExpiresAt = time.Now().Add(defaultExpiry)
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.Metadata == nil {
		n.Metadata = make(map[string]any)
	}

	id, err := s.Repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	n.ID = id
	s.Logger.Info("Notification created",
		zap.String("notificationId", id),
		zap.String("kind", string(n.Kind)),
		zap.String("userId", n.UserID))
	return n, nil
}

// Update persists an in-place mutation of an existing record.
func (s *DefaultNotificationService) Update(ctx context.Context, n *models.Notification) error {
	return s.Repo.Update(ctx, n)
}

// GetByID fetches one notification.
func (s *DefaultNotificationService) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns one page of a user's notifications, newest first.
func (s *DefaultNotificationService) List(ctx context.Context, userID string, page, size int64, unreadOnly bool) (*notificationRepo.NotificationPage, error) {
	return s.Repo.GetByUserID(ctx, userID, page, size, unreadOnly)
}

// UnreadCount returns the user's unread total.
func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}

// MarkRead flags one notification as read, checking ownership.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	return s.Repo.MarkRead(ctx, userID, id)
}

// MarkAllRead flags every unread notification of the user as read.
func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.Repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.Logger.Info("Marked all notifications as read", zap.String("userId", userID))
	return nil
}

// Delete removes one notification, checking ownership.
func (s *DefaultNotificationService) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.DeleteByID(ctx, userID, id)
}

// DeleteAll removes every notification the user has.
func (s *DefaultNotificationService) DeleteAll(ctx context.Context, userID string) error {
	if err := s.Repo.DeleteAllByUser(ctx, userID); err != nil {
		return err
	}
	s.Logger.Info("Deleted all notifications", zap.String("userId", userID))
	return nil
}

// Statistics aggregates the user's notifications per kind.
func (s *DefaultNotificationService) Statistics(ctx context.Context, userID string) ([]notificationRepo.KindStats, error) {
	return s.Repo.Statistics(ctx, userID)
}
