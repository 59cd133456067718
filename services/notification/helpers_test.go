package notification

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	notificationRepo "pulse/database/repository/notification"
	"pulse/models"
)

// memQueueBackend is an in-memory stand-in for the redis list.
type memQueueBackend struct {
	mu    sync.Mutex
	items [][]byte
}

func (b *memQueueBackend) Push(ctx context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, data)
	return nil
}

func (b *memQueueBackend) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		// Brief pause keeps empty-queue polling in tests from spinning hot.
		time.Sleep(time.Millisecond)
		return nil, nil
	}
	data := b.items[0]
	b.items = b.items[1:]
	return data, nil
}

func (b *memQueueBackend) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// memDedupStore is an in-memory DedupStore; the TTL is recorded but never
// enforced.
type memDedupStore struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
	getErr  error
}

func newMemDedupStore() *memDedupStore {
	return &memDedupStore{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (s *memDedupStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	id, ok := s.entries[key]
	return id, ok, nil
}

func (s *memDedupStore) Set(ctx context.Context, key, notificationID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = notificationID
	s.ttls[key] = ttl
	return nil
}

// fakeNotificationStore implements NotificationService over a map.
type fakeNotificationStore struct {
	mu        sync.Mutex
	records   map[string]*models.Notification
	nextID    int
	createErr error
	updates   int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{records: make(map[string]*models.Notification)}
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	n.ID = "n-" + strconv.Itoa(f.nextID)
	n.CreatedAt = time.Now()
	stored := *n
	f.records[n.ID] = &stored
	return n, nil
}

func (f *fakeNotificationStore) Update(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[n.ID]; !ok {
		return notificationRepo.ErrNotFound
	}
	stored := *n
	f.records[n.ID] = &stored
	f.updates++
	return nil
}

func (f *fakeNotificationStore) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.records[id]
	if !ok {
		return nil, notificationRepo.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationStore) List(ctx context.Context, userID string, page, size int64, unreadOnly bool) (*notificationRepo.NotificationPage, error) {
	return &notificationRepo.NotificationPage{}, nil
}

func (f *fakeNotificationStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.records {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.records[id]
	if !ok || n.UserID != userID {
		return nil, notificationRepo.ErrNotFound
	}
	n.Read = true
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.records {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

func (f *fakeNotificationStore) DeleteAll(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeNotificationStore) Statistics(ctx context.Context, userID string) ([]notificationRepo.KindStats, error) {
	return nil, nil
}

func (f *fakeNotificationStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeNotificationStore) byUser(userID string) []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.records {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out
}

// fakePreferences serves canned preferences per user, defaulting anyone
// unknown.
type fakePreferences struct {
	mu     sync.Mutex
	byUser map[string]*models.UserPreferences
	err    error
}

func newFakePreferences() *fakePreferences {
	return &fakePreferences{byUser: make(map[string]*models.UserPreferences)}
}

func (f *fakePreferences) GetOrCreate(ctx context.Context, userID string) (*models.UserPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	p := models.DefaultPreferences(userID)
	f.byUser[userID] = p
	return p, nil
}

func (f *fakePreferences) Update(ctx context.Context, userID string, updates *PreferencesUpdate) (*models.UserPreferences, error) {
	return f.GetOrCreate(ctx, userID)
}

func (f *fakePreferences) IsNotificationEnabled(ctx context.Context, userID string, kind models.Kind) bool {
	p, err := f.GetOrCreate(ctx, userID)
	if err != nil {
		return true
	}
	return p.IsEnabled(kind)
}

func (f *fakePreferences) IsInQuietHours(ctx context.Context, userID string) bool {
	p, err := f.GetOrCreate(ctx, userID)
	if err != nil {
		return false
	}
	return p.IsInQuietHours()
}

// fakePresence holds the online set in memory.
type fakePresence struct {
	mu     sync.Mutex
	online map[string]bool
	err    error
}

func newFakePresence(online ...string) *fakePresence {
	f := &fakePresence{online: make(map[string]bool)}
	for _, u := range online {
		f.online[u] = true
	}
	return f
}

func (f *fakePresence) MarkOnline(ctx context.Context, userID, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online[userID] = true
	return nil
}

func (f *fakePresence) MarkOffline(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.online, userID)
	return nil
}

func (f *fakePresence) IsOnline(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.online[userID], nil
}

func (f *fakePresence) OnlineUsers(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]string, 0, len(f.online))
	for u := range f.online {
		users = append(users, u)
	}
	return users, nil
}

// fakeTransport captures pushed frames per user.
type fakeTransport struct {
	mu      sync.Mutex
	frames  map[string][][]byte
	sendErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{frames: make(map[string][][]byte)}
}

func (f *fakeTransport) SendToUser(userID string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.frames[userID] = append(f.frames[userID], data)
	return nil
}

func (f *fakeTransport) Broadcast(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames["*"] = append(f.frames["*"], data)
}

func (f *fakeTransport) sent(userID string) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames[userID]
}

// fakeEnqueuer records handed-off events.
type fakeEnqueuer struct {
	mu     sync.Mutex
	events []*models.Event
	err    error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEnqueuer) all() []*models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Event(nil), f.events...)
}

var errStoreDown = errors.New("store down")
