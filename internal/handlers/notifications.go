package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// GetNotifications lists the caller's notifications, newest first
// GET /api/v1/notifications?limit=&offset=
func (h *Handlers) GetNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c, 20, 100)

	var notifications []models.Notification
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to load notifications", err)
		return
	}

	var unread int64
	err = database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&unread).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to count unread notifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationsRead marks all of the caller's notifications read
// POST /api/v1/notifications/read
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		util.RespondInternalError(c, "Failed to mark notifications read", result.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": result.RowsAffected})
}
