package notification

import (
	"context"
	"sync"
	"testing"

	preferencesRepo "pulse/database/repository/preferences"
	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memPreferencesRepo struct {
	mu     sync.Mutex
	byUser map[string]*models.UserPreferences
	saves  int
}

func newMemPreferencesRepo() *memPreferencesRepo {
	return &memPreferencesRepo{byUser: make(map[string]*models.UserPreferences)}
}

func (r *memPreferencesRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byUser[userID]
	if !ok {
		return nil, preferencesRepo.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memPreferencesRepo) Save(ctx context.Context, prefs *models.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *prefs
	r.byUser[prefs.UserID] = &copied
	r.saves++
	return nil
}

func (r *memPreferencesRepo) EnsureIndexes() error { return nil }

func newPrefsService() (*DefaultPreferencesService, *memPreferencesRepo) {
	repo := newMemPreferencesRepo()
	return &DefaultPreferencesService{Repo: repo, Logger: zap.NewNop()}, repo
}

func TestGetOrCreateStoresDefaultsOnFirstAccess(t *testing.T) {
	svc, repo := newPrefsService()

	prefs, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", prefs.UserID)
	assert.True(t, prefs.IsEnabled(models.KindLike))
	assert.Equal(t, 1, repo.saves)

	// Second access reads the stored copy; no second save.
	_, err = svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	svc, _ := newPrefsService()

	push := false
	updated, err := svc.Update(context.Background(), "u1", &PreferencesUpdate{
		PushNotifications: &push,
		QuietHours:        &models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"},
	})
	require.NoError(t, err)
	assert.False(t, updated.PushNotifications)
	assert.True(t, updated.QuietHours.Enabled)
	// Untouched fields keep their defaults.
	assert.True(t, updated.EmailNotifications)
	assert.True(t, updated.IsEnabled(models.KindMessage))
}

func TestUpdateReplacesKindToggles(t *testing.T) {
	svc, _ := newPrefsService()

	updated, err := svc.Update(context.Background(), "u1", &PreferencesUpdate{
		Notifications: map[string]bool{"like": false},
	})
	require.NoError(t, err)
	assert.False(t, updated.IsEnabled(models.KindLike))

	// Kinds absent from the replacement map fall back to enabled.
	assert.True(t, updated.IsEnabled(models.KindMessage))
}

func TestIsNotificationEnabledFailsOpen(t *testing.T) {
	svc := &DefaultPreferencesService{Repo: failingPreferencesRepo{}, Logger: zap.NewNop()}
	assert.True(t, svc.IsNotificationEnabled(context.Background(), "u1", models.KindLike))
	assert.False(t, svc.IsInQuietHours(context.Background(), "u1"))
}

type failingPreferencesRepo struct{}

func (failingPreferencesRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	return nil, errStoreDown
}

func (failingPreferencesRepo) Save(ctx context.Context, prefs *models.UserPreferences) error {
	return errStoreDown
}

func (failingPreferencesRepo) EnsureIndexes() error { return errStoreDown }
