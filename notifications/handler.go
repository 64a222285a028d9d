package notifications

import (
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"

	"github.com/gin-gonic/gin"
)

// GetMyNotifications lists the connected user's notifications
// @Summary List my notifications
// @Description Return the notifications of the connected user, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /notifications [get]
func GetMyNotifications(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var notifications []models.Notification
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one notification as read
// @Summary Mark a notification read
// @Description Mark one of the connected user's notifications as read
// @Tags notifications
// @Produce json
// @Param notificationId path string true "Notification ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Notification marked as read"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Notification not found"
// @Router /notifications/{notificationId}/read [put]
func MarkNotificationRead(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	notificationID := c.Param("notificationId")

	var notification models.Notification
	err := db.DB.First(&notification, "id = ? AND user_id = ?", notificationID, userID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if err := db.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
