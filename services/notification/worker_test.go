package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pulse/config"
	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pipeline struct {
	pool      *Pool
	store     *fakeNotificationStore
	prefs     *fakePreferences
	dedup     *memDedupStore
	presence  *fakePresence
	transport *fakeTransport
}

func newPipeline(online ...string) *pipeline {
	store := newFakeNotificationStore()
	prefs := newFakePreferences()
	dedup := newMemDedupStore()
	presence := newFakePresence(online...)
	transport := newFakeTransport()

	logger := zap.NewNop()
	pool := &Pool{
		Notifications: store,
		Preferences:   prefs,
		Dedup:         dedup,
		Dispatcher: &Dispatcher{
			Presence:    presence,
			Transport:   transport,
			Preferences: prefs,
			Logger:      logger,
		},
		GroupingWindow: 10 * time.Minute,
		Logger:         logger,
	}
	return &pipeline{pool: pool, store: store, prefs: prefs, dedup: dedup, presence: presence, transport: transport}
}

func likeEvent(actorID, actorName string) *models.Event {
	return &models.Event{
		UserID:    "u1",
		Kind:      models.KindLike,
		ActorID:   actorID,
		ActorName: actorName,
		RelatedID: "post-1",
		Message:   actorName + " liked your post",
	}
}

func (p *pipeline) run(ev *models.Event) {
	p.pool.process(context.Background(), ev, p.pool.Logger)
}

func TestProcessCreatesRecord(t *testing.T) {
	p := newPipeline()
	p.run(&models.Event{
		UserID:    "u1",
		Kind:      models.KindMessage,
		ActorID:   "a1",
		ActorName: "Alice",
		Message:   "Alice sent you a message",
	})

	records := p.store.byUser("u1")
	require.Len(t, records, 1)
	n := records[0]
	assert.Equal(t, models.KindMessage, n.Kind)
	assert.Equal(t, "Alice sent you a message", n.Message)
	assert.Equal(t, models.PriorityMedium, n.Priority)
	assert.False(t, n.IsGrouped())
}

func TestProcessNonGroupableKindsNeverCollapse(t *testing.T) {
	p := newPipeline()
	ev := &models.Event{UserID: "u1", Kind: models.KindMessage, ActorID: "a1", ActorName: "Alice"}
	p.run(ev)
	p.run(ev)

	assert.Equal(t, 2, p.store.count())
}

func TestProcessGroupsRepeatOccurrences(t *testing.T) {
	p := newPipeline()
	p.run(likeEvent("a1", "Alice"))
	p.run(likeEvent("a2", "Bob"))

	records := p.store.byUser("u1")
	require.Len(t, records, 1)
	n := records[0]
	assert.Equal(t, 2, n.GroupCount())
	assert.Equal(t, "Bob and 1 other liked your post", n.Message)

	p.run(likeEvent("a3", "Carol"))
	records = p.store.byUser("u1")
	require.Len(t, records, 1)
	n = records[0]
	assert.Equal(t, 3, n.GroupCount())
	assert.Equal(t, "Carol and 2 others liked your post", n.Message)
}

func TestProcessGroupingIsScopedToRelatedEntity(t *testing.T) {
	p := newPipeline()
	ev1 := likeEvent("a1", "Alice")
	ev2 := likeEvent("a2", "Bob")
	ev2.RelatedID = "post-2"
	p.run(ev1)
	p.run(ev2)

	assert.Equal(t, 2, p.store.count())
}

func TestProcessDropsDisabledKind(t *testing.T) {
	p := newPipeline()
	prefs, _ := p.prefs.GetOrCreate(context.Background(), "u1")
	prefs.SetKindEnabled(models.KindLike, false)

	p.run(likeEvent("a1", "Alice"))
	assert.Equal(t, 0, p.store.count())
}

func TestProcessDropsOnPreferenceFailure(t *testing.T) {
	p := newPipeline()
	p.prefs.err = errStoreDown

	p.run(likeEvent("a1", "Alice"))
	assert.Equal(t, 0, p.store.count())
}

func TestProcessDropsOnPersistFailure(t *testing.T) {
	p := newPipeline()
	p.store.createErr = errStoreDown

	// Must not panic and must not register a dedup entry for a record that
	// was never written.
	p.run(likeEvent("a1", "Alice"))
	assert.Equal(t, 0, p.store.count())
	_, found, err := p.dedup.Get(context.Background(), DedupKey(likeEvent("a1", "Alice")))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProcessDropsOccurrenceWhenDedupTargetVanished(t *testing.T) {
	p := newPipeline()
	ev := likeEvent("a1", "Alice")
	require.NoError(t, p.dedup.Set(context.Background(), DedupKey(ev), "gone", 10*time.Minute))

	p.run(ev)
	assert.Equal(t, 0, p.store.count())
}

func TestProcessPushesToOnlineUser(t *testing.T) {
	p := newPipeline("u1")
	p.run(likeEvent("a1", "Alice"))

	frames := p.transport.sent("u1")
	require.Len(t, frames, 1)
	var env envelope
	require.NoError(t, json.Unmarshal(frames[0], &env))
	assert.Equal(t, EventNew, env.Event)

	p.run(likeEvent("a2", "Bob"))
	frames = p.transport.sent("u1")
	require.Len(t, frames, 2)
	require.NoError(t, json.Unmarshal(frames[1], &env))
	assert.Equal(t, EventUpdated, env.Event)
}

func TestProcessOfflineUserKeepsRecordOnly(t *testing.T) {
	p := newPipeline()
	p.run(likeEvent("a1", "Alice"))

	assert.Equal(t, 1, p.store.count())
	assert.Empty(t, p.transport.sent("u1"))
}

func TestProcessAnchorsWindowAtFirstOccurrence(t *testing.T) {
	p := newPipeline()
	ev := likeEvent("a1", "Alice")
	p.run(ev)

	key := DedupKey(ev)
	firstTTL := p.dedup.ttls[key]
	assert.Equal(t, 10*time.Minute, firstTTL)

	// A repeat occurrence folds in without touching the entry's TTL.
	p.run(likeEvent("a2", "Bob"))
	assert.Equal(t, firstTTL, p.dedup.ttls[key])
}

func TestWorkersDrainQueueAndStopOnCancel(t *testing.T) {
	p := newPipeline()
	backend := &memQueueBackend{}
	p.pool.Queue = &Queue{
		backend:    backend,
		priorities: NewPriorityTable(config.Config{}),
		logger:     zap.NewNop(),
	}
	p.pool.Workers = 2

	for i := 0; i < 4; i++ {
		data, err := json.Marshal(&models.Event{
			UserID: "u1", Kind: models.KindMessage, ActorID: "a1", ActorName: "Alice",
		})
		require.NoError(t, err)
		require.NoError(t, backend.Push(context.Background(), data))
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.pool.Start(ctx)

	deadline := time.After(2 * time.Second)
	for p.store.count() < 4 {
		select {
		case <-deadline:
			t.Fatal("workers did not drain the queue in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	done := make(chan struct{})
	go func() {
		p.pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
	assert.Equal(t, 4, p.store.count())
}
