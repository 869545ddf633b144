package handlers

import (
	"net/http"

	"taskify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnalyticsHandler struct {
	db               *gorm.DB
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(db *gorm.DB, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, analyticsService: analyticsService}
}

func (h *AnalyticsHandler) GetDashboardAnalytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	analytics, err := h.analyticsService.ComputeAnalytics(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dashboard analytics fetched successfully",
		"data":    analytics,
	})
}
