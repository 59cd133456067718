package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pulse/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const queueKey = "notifications:queue"

// dequeueWake bounds how long a worker blocks on an empty queue before
// waking to check for shutdown.
const dequeueWake = 5 * time.Second

// queueBackend is the raw FIFO under the fan-out queue. Pop returns
// (nil, nil) when the wait times out with nothing available.
type queueBackend interface {
	Push(ctx context.Context, data []byte) error
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
}

type redisQueue struct {
	client *redis.Client
}

func (q *redisQueue) Push(ctx context.Context, data []byte) error {
	return q.client.LPush(ctx, queueKey, data).Err()
}

func (q *redisQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BRPop(ctx, timeout, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPop yields [key, value].
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// Queue is the shared fan-out queue between ingestion and the worker pool.
// It is unbounded (a redis list); FIFO holds per producer but not across
// producers.
type Queue struct {
	backend    queueBackend
	priorities *PriorityTable
	logger     *zap.Logger
}

// NewQueue builds a redis-backed Queue.
func NewQueue(client *redis.Client, priorities *PriorityTable, logger *zap.Logger) *Queue {
	return &Queue{
		backend:    &redisQueue{client: client},
		priorities: priorities,
		logger:     logger,
	}
}

// Enqueue admits an event to the queue, waiting out the kind's admission
// delay first. The wait happens on the producer's goroutine and is cut short
// only by context cancellation (process shutdown).
func (q *Queue) Enqueue(ctx context.Context, event *models.Event) error {
	cfg := q.priorities.Lookup(event.Kind)
	if cfg.Delay > 0 {
		timer := time.NewTimer(cfg.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := q.backend.Push(ctx, data); err != nil {
		return err
	}

	q.logger.Info("Queued notification",
		zap.String("kind", string(event.Kind)),
		zap.String("userId", event.UserID))
	return nil
}

// Dequeue blocks for one event, waking every few seconds so callers can
// observe shutdown. It returns (nil, nil) on an empty wake.
func (q *Queue) Dequeue(ctx context.Context) (*models.Event, error) {
	data, err := q.backend.Pop(ctx, dequeueWake)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
