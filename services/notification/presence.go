package notification

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const (
	onlineUsersKey  = "notification:online"
	socketKeyPrefix = "notification:socket:"
)

// PresenceTracker records which users currently hold a live push-capable
// connection. A user keeps at most one session; a reconnect overwrites the
// stored session id.
type PresenceTracker interface {
	MarkOnline(ctx context.Context, userID, sessionID string) error
	MarkOffline(ctx context.Context, userID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
	OnlineUsers(ctx context.Context) ([]string, error)
}

type redisPresenceTracker struct {
	client *redis.Client
}

// NewRedisPresenceTracker returns a PresenceTracker on the shared cache
// client. Set membership and key writes are single-key atomic, so concurrent
// connection handlers are safe.
func NewRedisPresenceTracker(client *redis.Client) PresenceTracker {
	return &redisPresenceTracker{client: client}
}

func (t *redisPresenceTracker) MarkOnline(ctx context.Context, userID, sessionID string) error {
	if err := t.client.SAdd(ctx, onlineUsersKey, userID).Err(); err != nil {
		return err
	}
	return t.client.Set(ctx, socketKeyPrefix+userID, sessionID, 0).Err()
}

func (t *redisPresenceTracker) MarkOffline(ctx context.Context, userID string) error {
	if err := t.client.SRem(ctx, onlineUsersKey, userID).Err(); err != nil {
		return err
	}
	return t.client.Del(ctx, socketKeyPrefix+userID).Err()
}

func (t *redisPresenceTracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	return t.client.SIsMember(ctx, onlineUsersKey, userID).Result()
}

func (t *redisPresenceTracker) OnlineUsers(ctx context.Context) ([]string, error) {
	return t.client.SMembers(ctx, onlineUsersKey).Result()
}
