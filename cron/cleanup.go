package cron

import (
	"context"
	"log"
	"time"

	"pulse/config"
	notificationRepo "pulse/database/repository/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeNotificationPurge = "notifications:purge"

// InitCleanupWorker runs the retention purge worker and its daily schedule
// in the background. The Mongo TTL index on expiresAt is the primary expiry
// path; this job is the backstop and additionally trims read notifications
// past the configured retention.
func InitCleanupWorker(repo notificationRepo.NotificationRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationPurge, handlePurgeTask(repo))

	go func() {
		zap.L().Info("Starting notification cleanup worker")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("cleanup worker failed to start: %v", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 24h", asynq.NewTask(TypeNotificationPurge, nil)); err != nil {
		log.Fatalf("failed to register purge schedule: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("cleanup scheduler failed to start: %v", err)
		}
	}()
}

func handlePurgeTask(repo notificationRepo.NotificationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		expired, err := repo.DeleteExpired(ctx)
		if err != nil {
			zap.L().Error("Failed to purge expired notifications", zap.Error(err))
			return err
		}

		retention := config.AppConfig.RetentionDays
		if retention <= 0 {
			retention = 90
		}
		trimmed, err := repo.DeleteReadOlderThan(ctx, retention)
		if err != nil {
			zap.L().Error("Failed to trim read notifications", zap.Error(err))
			return err
		}

		zap.L().Info("Notification purge completed",
			zap.Int64("expired", expired),
			zap.Int64("trimmedRead", trimmed))
		return nil
	}
}
