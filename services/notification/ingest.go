package notification

import (
	"context"
	"encoding/json"

	"pulse/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// channelKinds is the closed mapping from pub/sub channel to notification
// kind. Events on any other channel are dropped.
var channelKinds = map[string]models.Kind{
	"notification:like":           models.KindLike,
	"notification:message":        models.KindMessage,
	"notification:profile-view":   models.KindProfileView,
	"notification:friend-post":    models.KindFriendPost,
	"notification:friend-request": models.KindFriendRequest,
}

// ChannelNames returns every inbound event channel the listener subscribes to.
func ChannelNames() []string {
	names := make([]string, 0, len(channelKinds))
	for name := range channelKinds {
		names = append(names, name)
	}
	return names
}

// rawEvent is the wire shape published by the rest of the platform.
type rawEvent struct {
	UserID       string         `json:"userId"`
	ActorID      string         `json:"actorId"`
	ActorName    string         `json:"actorName"`
	ActorPicture string         `json:"actorPicture"`
	RelatedID    string         `json:"relatedId"`
	Priority     string         `json:"priority"`
	Metadata     map[string]any `json:"metadata"`
}

// Listener subscribes to the notification event channels and feeds the
// fan-out queue. Each message is normalized and handed off on its own
// goroutine so the subscriber loop never waits out an admission delay.
type Listener struct {
	client  *redis.Client
	enqueue Enqueuer
	logger  *zap.Logger
}

// NewListener builds a Listener on the shared cache client.
func NewListener(client *redis.Client, enqueue Enqueuer, logger *zap.Logger) *Listener {
	return &Listener{
		client:  client,
		enqueue: enqueue,
		logger:  logger,
	}
}

// Start subscribes and consumes until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, ChannelNames()...)
	// Force the subscription handshake before declaring the listener up.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	l.logger.Info("Notification event listener subscribed",
		zap.Int("channels", len(channelKinds)))

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				go l.handleMessage(ctx, msg.Channel, []byte(msg.Payload))
			}
		}
	}()
	return nil
}

// handleMessage validates and normalizes one raw event, then enqueues it.
// Malformed payloads and unknown channels are dropped with a logged reason.
func (l *Listener) handleMessage(ctx context.Context, channel string, payload []byte) {
	kind, ok := channelKinds[channel]
	if !ok {
		l.logger.Warn("Event on unknown channel dropped", zap.String("channel", channel))
		return
	}

	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		l.logger.Error("Undecodable event payload dropped",
			zap.String("channel", channel), zap.Error(err))
		return
	}
	if raw.UserID == "" || raw.ActorID == "" || raw.ActorName == "" {
		l.logger.Error("Event missing required fields dropped",
			zap.String("channel", channel),
			zap.String("userId", raw.UserID),
			zap.String("actorId", raw.ActorID))
		return
	}

	priority := raw.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	metadata := raw.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	event := &models.Event{
		UserID:       raw.UserID,
		Kind:         kind,
		ActorID:      raw.ActorID,
		ActorName:    raw.ActorName,
		ActorPicture: raw.ActorPicture,
		RelatedID:    raw.RelatedID,
		Message:      MessageFor(kind, raw.ActorName),
		Priority:     priority,
		Metadata:     metadata,
	}

	if err := l.enqueue.Enqueue(ctx, event); err != nil {
		l.logger.Error("Failed to enqueue notification event",
			zap.String("kind", string(kind)),
			zap.String("userId", event.UserID),
			zap.Error(err))
	}
}
