package routes

import (
	"time"

	"pulse/handlers"
	"pulse/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the notification REST endpoints.
func RegisterNotificationRoutes(r *gin.Engine, nh *handlers.NotificationHandler, ph *handlers.PreferencesHandler) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("", nh.ListHandler)
		api.GET("/unread-count", nh.UnreadCountHandler)
		api.PATCH("/:id/read", nh.MarkReadHandler)
		api.PATCH("/read-all", nh.MarkAllReadHandler)
		api.DELETE("/all", nh.DeleteAllHandler)
		api.DELETE("/:id", nh.DeleteHandler)
		api.GET("/statistics", nh.StatisticsHandler)

		prefs := api.Group("/preferences")
		prefs.GET("", ph.GetHandler)
		prefs.PATCH("", ph.UpdateHandler)
	}
}

// RegisterRealtimeRoutes registers the WebSocket upgrade endpoint. The token
// travels as a query parameter because browsers cannot set headers on
// WebSocket requests.
func RegisterRealtimeRoutes(r *gin.Engine, wh *handlers.WSHandler) {
	r.GET("/ws", wh.ConnectHandler)
}

// RegisterSystemRoutes registers health and other unauthenticated endpoints.
func RegisterSystemRoutes(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// CORSMiddleware returns the CORS policy for browser clients.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
