package notification

import (
	"context"
	"testing"

	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestListener(enq Enqueuer) *Listener {
	return &Listener{enqueue: enq, logger: zap.NewNop()}
}

func TestChannelNamesCoversEveryKind(t *testing.T) {
	names := ChannelNames()
	assert.Len(t, names, len(models.AllKinds))
	assert.Contains(t, names, "notification:like")
	assert.Contains(t, names, "notification:friend-request")
}

func TestHandleMessageNormalizesEvent(t *testing.T) {
	enq := &fakeEnqueuer{}
	l := newTestListener(enq)

	payload := []byte(`{"userId":"u1","actorId":"a1","actorName":"Alice","relatedId":"post-7"}`)
	l.handleMessage(context.Background(), "notification:like", payload)

	events := enq.all()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, models.KindLike, ev.Kind)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, "post-7", ev.RelatedID)
	assert.Equal(t, "Alice liked your post", ev.Message)
	assert.Equal(t, models.PriorityMedium, ev.Priority)
	assert.NotNil(t, ev.Metadata)
}

func TestHandleMessageKeepsExplicitPriority(t *testing.T) {
	enq := &fakeEnqueuer{}
	l := newTestListener(enq)

	payload := []byte(`{"userId":"u1","actorId":"a1","actorName":"Alice","priority":"high"}`)
	l.handleMessage(context.Background(), "notification:message", payload)

	events := enq.all()
	require.Len(t, events, 1)
	assert.Equal(t, models.PriorityHigh, events[0].Priority)
}

func TestHandleMessageDropsUnknownChannel(t *testing.T) {
	enq := &fakeEnqueuer{}
	l := newTestListener(enq)

	l.handleMessage(context.Background(), "notification:poke",
		[]byte(`{"userId":"u1","actorId":"a1","actorName":"Alice"}`))
	assert.Empty(t, enq.all())
}

func TestHandleMessageDropsMalformedPayload(t *testing.T) {
	enq := &fakeEnqueuer{}
	l := newTestListener(enq)

	l.handleMessage(context.Background(), "notification:like", []byte(`{not json`))
	assert.Empty(t, enq.all())
}

func TestHandleMessageDropsMissingFields(t *testing.T) {
	enq := &fakeEnqueuer{}
	l := newTestListener(enq)

	cases := []string{
		`{"actorId":"a1","actorName":"Alice"}`,
		`{"userId":"u1","actorName":"Alice"}`,
		`{"userId":"u1","actorId":"a1"}`,
	}
	for _, payload := range cases {
		l.handleMessage(context.Background(), "notification:like", []byte(payload))
	}
	assert.Empty(t, enq.all())
}

func TestHandleMessageSurvivesEnqueueFailure(t *testing.T) {
	enq := &fakeEnqueuer{err: errStoreDown}
	l := newTestListener(enq)

	// Must not panic; the event is simply lost.
	l.handleMessage(context.Background(), "notification:like",
		[]byte(`{"userId":"u1","actorId":"a1","actorName":"Alice"}`))
	assert.Empty(t, enq.all())
}
