// File: pulse/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulse/config"
	"pulse/cron"
	"pulse/database"
	notificationRepo "pulse/database/repository/notification"
	preferencesRepo "pulse/database/repository/preferences"
	"pulse/handlers"
	"pulse/middleware"
	"pulse/realtime"
	"pulse/routes"
	"pulse/services/notification"
	"pulse/services/push"
	"pulse/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(routes.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	notifRepo := notificationRepo.NewMongoNotificationRepo()
	prefsRepo := preferencesRepo.NewMongoPreferencesRepo()
	if err := notifRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure notification indexes: %v", err)
	}
	if err := prefsRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure preferences indexes: %v", err)
	}

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:   notifRepo,
		Logger: logger,
	}
	preferencesService := &notification.DefaultPreferencesService{
		Repo:   prefsRepo,
		Logger: logger,
	}

	hub := realtime.NewHub()
	presence := notification.NewRedisPresenceTracker(utils.GetCacheClient())
	dispatcher := &notification.Dispatcher{
		Presence:    presence,
		Transport:   hub,
		Push:        push.NewFCMSender(utils.FCMClient),
		Preferences: preferencesService,
		Logger:      logger,
	}

	// Fan-out pipeline: pub/sub listener feeds the queue, the worker pool
	// drains it.
	priorities := notification.NewPriorityTable(config.AppConfig)
	queue := notification.NewQueue(utils.GetQueueClient(), priorities, logger)
	pool := &notification.Pool{
		Queue:          queue,
		Notifications:  notificationService,
		Preferences:    preferencesService,
		Dedup:          notification.NewRedisDedupStore(utils.GetCacheClient()),
		Dispatcher:     dispatcher,
		Workers:        config.AppConfig.QueueWorkers,
		GroupingWindow: time.Duration(config.AppConfig.GroupingWindowSeconds) * time.Second,
		Logger:         logger,
	}
	listener := notification.NewListener(utils.GetCacheClient(), queue, logger)

	pipelineCtx, stopPipeline := context.WithCancel(context.Background())
	pool.Start(pipelineCtx)
	if err := listener.Start(pipelineCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to start event listener: %v", err)
	}

	cron.InitCleanupWorker(notifRepo)

	// handlers and routes.
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService)
	wsHandler := handlers.NewWSHandler(hub, presence, notificationService, dispatcher)

	routes.RegisterNotificationRoutes(router, notificationHandler, preferencesHandler)
	routes.RegisterRealtimeRoutes(router, wsHandler)
	routes.RegisterSystemRoutes(router)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetQueueClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8085"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	// Stop ingesting and let in-flight events finish.
	stopPipeline()
	pool.Wait()

	logger.Sugar().Info("main: server stopped gracefully")
}
