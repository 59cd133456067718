package handlers

import (
	"net/http"

	"pulse/services/notification"
	"pulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferencesHandler serves the notification preferences REST surface.
type PreferencesHandler struct {
	Service notification.PreferencesService
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(svc notification.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{Service: svc}
}

// GetHandler returns the user's preferences, creating defaults on first access.
func (h *PreferencesHandler) GetHandler(c *gin.Context) {
	userID := currentUserID(c)

	prefs, err := h.Service.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("Failed to load preferences", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch preferences", "")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdateHandler applies a partial patch to the user's preferences.
func (h *PreferencesHandler) UpdateHandler(c *gin.Context) {
	userID := currentUserID(c)

	var updates notification.PreferencesUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid preferences payload", err.Error())
		return
	}

	prefs, err := h.Service.Update(c.Request.Context(), userID, &updates)
	if err != nil {
		zap.L().Error("Failed to update preferences", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update preferences", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Preferences updated",
		"preferences": prefs,
	})
}
