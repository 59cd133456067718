package handlers

import (
	"errors"
	"net/http"
	"strconv"

	notificationRepo "pulse/database/repository/notification"
	"pulse/services/notification"
	"pulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler serves the per-user notification REST surface.
type NotificationHandler struct {
	Service notification.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// ListHandler returns one page of the user's notifications.
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	userID := currentUserID(c)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "0"), 10, 64)
	size, _ := strconv.ParseInt(c.DefaultQuery("size", "20"), 10, 64)
	unreadOnly := c.Query("unreadOnly") == "true"

	result, err := h.Service.List(c.Request.Context(), userID, page, size, unreadOnly)
	if err != nil {
		zap.L().Error("Failed to list notifications", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch notifications", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications":      result.Notifications,
		"totalPages":         result.TotalPages,
		"currentPage":        result.CurrentPage,
		"totalNotifications": result.Total,
	})
}

// UnreadCountHandler returns the user's unread total.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	userID := currentUserID(c)

	count, err := h.Service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("Failed to count unread notifications", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch unread count", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkReadHandler flags one notification as read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	n, err := h.Service.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", "")
			return
		}
		zap.L().Error("Failed to mark notification as read", zap.String("notificationId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to mark as read", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"notification": n,
	})
}

// MarkAllReadHandler flags every unread notification of the user as read.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.Service.MarkAllRead(c.Request.Context(), userID); err != nil {
		zap.L().Error("Failed to mark all notifications as read", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to mark all as read", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// DeleteHandler removes one notification.
func (h *NotificationHandler) DeleteHandler(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	if err := h.Service.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", "")
			return
		}
		zap.L().Error("Failed to delete notification", zap.String("notificationId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete notification", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// DeleteAllHandler removes every notification the user has.
func (h *NotificationHandler) DeleteAllHandler(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.Service.DeleteAll(c.Request.Context(), userID); err != nil {
		zap.L().Error("Failed to delete all notifications", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete notifications", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications deleted"})
}

// StatisticsHandler returns per-kind totals with unread counts.
func (h *NotificationHandler) StatisticsHandler(c *gin.Context) {
	userID := currentUserID(c)

	stats, err := h.Service.Statistics(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("Failed to aggregate notification statistics", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch statistics", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}
