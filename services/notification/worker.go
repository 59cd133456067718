package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"pulse/models"

	"go.uber.org/zap"
)

// Pool is the fixed set of workers draining the fan-out queue. Each worker
// runs the preference / dedup / persist / deliver pipeline for one event at
// a time; a failing event is logged and dropped without disturbing the pool.
type Pool struct {
	Queue          *Queue
	Notifications  NotificationService
	Preferences    PreferencesService
	Dedup          DedupStore
	Dispatcher     *Dispatcher
	Workers        int
	GroupingWindow time.Duration
	Logger         *zap.Logger

	wg sync.WaitGroup
}

// Start launches the workers. They exit when ctx is cancelled; in-flight
// events run to completion.
func (p *Pool) Start(ctx context.Context) {
	workers := p.Workers
	if workers <= 0 {
		workers = 3
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.Logger.Info("Notification queue workers started", zap.Int("workers", workers))
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := p.Logger.With(zap.Int("worker", id))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker shutting down")
			return
		default:
		}

		event, err := p.Queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("Worker shutting down")
				return
			}
			logger.Error("Failed to dequeue notification event", zap.Error(err))
			continue
		}
		if event == nil {
			// Empty wake; loop back for the shutdown check.
			continue
		}

		p.process(ctx, event, logger)
	}
}

// process runs the per-event pipeline. Every failure path drops just this
// event: no retry, no dead-letter, never fatal to the pool.
func (p *Pool) process(ctx context.Context, event *models.Event, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while processing notification event", zap.Any("panic", r))
		}
	}()

	logger.Debug("Processing notification event",
		zap.String("kind", string(event.Kind)),
		zap.String("userId", event.UserID))

	prefs, err := p.Preferences.GetOrCreate(ctx, event.UserID)
	if err != nil {
		logger.Error("Failed to load preferences, dropping event",
			zap.String("userId", event.UserID), zap.Error(err))
		return
	}
	if !prefs.IsEnabled(event.Kind) {
		logger.Debug("Notifications disabled for kind, dropping event",
			zap.String("kind", string(event.Kind)),
			zap.String("userId", event.UserID))
		return
	}

	if event.Kind.IsGroupable() {
		key := DedupKey(event)
		existingID, found, err := p.Dedup.Get(ctx, key)
		if err != nil {
			logger.Error("Dedup store lookup failed, dropping event",
				zap.String("dedupKey", key), zap.Error(err))
			return
		}
		if found {
			p.foldIntoExisting(ctx, event, existingID, logger)
			return
		}
	}

	n := p.buildRecord(event)
	created, err := p.Notifications.Create(ctx, n)
	if err != nil {
		logger.Error("Failed to persist notification, dropping event",
			zap.String("userId", event.UserID), zap.Error(err))
		return
	}

	if event.Kind.IsGroupable() {
		// The window is anchored here, at first occurrence; updates never
		// refresh it.
		if err := p.Dedup.Set(ctx, DedupKey(event), created.ID, p.GroupingWindow); err != nil {
			logger.Error("Failed to register dedup entry",
				zap.String("notificationId", created.ID), zap.Error(err))
		}
	}

	p.Dispatcher.SendToUser(ctx, event.UserID, EventNew, created)
}

// foldIntoExisting collapses a repeat occurrence into the record the dedup
// entry points at. A vanished record (expired or deleted inside the window)
// drops the occurrence rather than resurrecting it.
func (p *Pool) foldIntoExisting(ctx context.Context, event *models.Event, existingID string, logger *zap.Logger) {
	existing, err := p.Notifications.GetByID(ctx, existingID)
	if err != nil {
		logger.Warn("Dedup entry points at missing notification, dropping occurrence",
			zap.String("notificationId", existingID), zap.Error(err))
		return
	}

	prevCount := existing.GroupCount()
	existing.SetGroupCount(prevCount + 1)
	existing.Message = GroupedMessage(event.Kind, event.ActorName, prevCount)

	if err := p.Notifications.Update(ctx, existing); err != nil {
		logger.Error("Failed to update grouped notification",
			zap.String("notificationId", existingID), zap.Error(err))
		return
	}

	p.Dispatcher.SendToUser(ctx, event.UserID, EventUpdated, existing)

	logger.Info("Grouped notification updated",
		zap.String("notificationId", existingID),
		zap.Int("groupCount", prevCount+1))
}

func (p *Pool) buildRecord(event *models.Event) *models.Notification {
	priority := event.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	metadata := event.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &models.Notification{
		UserID:       event.UserID,
		Kind:         event.Kind,
		ActorID:      event.ActorID,
		ActorName:    event.ActorName,
		ActorPicture: event.ActorPicture,
		RelatedID:    event.RelatedID,
		Message:      event.Message,
		Priority:     priority,
		Metadata:     metadata,
	}
}
