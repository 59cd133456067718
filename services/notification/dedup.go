package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulse/models"

	"github.com/go-redis/redis/v8"
)

const dedupKeyPrefix = "notification:dedup:"

// DedupKey builds the composite grouping identity for an event. Events
// without a related entity share the "none" bucket per (kind, user, actor).
func DedupKey(ev *models.Event) string {
	related := ev.RelatedID
	if related == "" {
		related = "none"
	}
	return fmt.Sprintf("%s%s:%s:%s:%s", dedupKeyPrefix, ev.Kind, ev.UserID, ev.ActorID, related)
}

// DedupStore maps a dedup key to the notification record collapsing its
// occurrences, expiring with the grouping window.
//
// Get-then-Set is not atomic: two workers racing the same key can both miss
// and both create a record, with the last Set winning the pointer. Single
// per-key redis operations keep the window consistent otherwise.
type DedupStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, notificationID string, ttl time.Duration) error
}

type redisDedupStore struct {
	client *redis.Client
}

// NewRedisDedupStore returns a DedupStore on the shared cache client.
func NewRedisDedupStore(client *redis.Client) DedupStore {
	return &redisDedupStore{client: client}
}

func (s *redisDedupStore) Get(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func (s *redisDedupStore) Set(ctx context.Context, key, notificationID string, ttl time.Duration) error {
	return s.client.Set(ctx, key, notificationID, ttl).Err()
}
