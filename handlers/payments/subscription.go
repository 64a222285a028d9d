package payments

import (
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserSubscriptions lists all the subscriptions of the connected user
// @Summary List the user's subscriptions
// @Description Return all the subscriptions (active, cancelled, expired) of the connected user
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions [get]
func GetUserSubscriptions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in GetUserSubscriptions")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscriptions []models.Subscription
	err := db.DB.Preload("Tier").Where("fan_id = ?", userID).Order("created_at DESC").Find(&subscriptions).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching subscriptions in GetUserSubscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscriptions"})
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription list fetched in GetUserSubscriptions")
	c.JSON(http.StatusOK, subscriptions)
}

// GetSubscriptionDetail returns the details of a subscription
// @Summary Details of a subscription
// @Description Return the detailed information of a subscription
// @Tags subscriptions
// @Produce json
// @Param subscriptionId path string true "ID of the subscription"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: You are not authorized to view this subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /subscriptions/{subscriptionId} [get]
func GetSubscriptionDetail(c *gin.Context) {
	subscriptionId := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in GetSubscriptionDetail")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	err := db.DB.Preload("Tier").First(&subscription, "id = ?", subscriptionId).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Subscription not found in GetSubscriptionDetail")
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	role, _ := c.Get("role")
	if subscription.FanID != userID && role != string(models.AdminRole) {
		utils.LogErrorWithUser(userID, nil, "Not authorized to view this subscription in GetSubscriptionDetail")
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this subscription"})
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription detail fetched in GetSubscriptionDetail")
	c.JSON(http.StatusOK, subscription)
}

// CancelSubscription cancels a subscription
// @Summary Cancel a subscription
// @Description Turn off auto-renew and mark the subscription cancelled. Access to gated content lasts until the period end; renewals are provider-driven and simply stop.
// @Tags subscriptions
// @Produce json
// @Param subscriptionId path string true "ID of the subscription to cancel"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Subscription cancelled successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: You are not authorized to cancel this subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /subscriptions/{subscriptionId} [delete]
func CancelSubscription(c *gin.Context) {
	subscriptionId := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in CancelSubscription")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	err := db.DB.First(&subscription, "id = ?", subscriptionId).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Subscription not found in CancelSubscription")
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.FanID != userID {
		utils.LogErrorWithUser(userID, nil, "Not authorized to cancel this subscription in CancelSubscription")
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to cancel this subscription"})
		return
	}

	err = db.DB.Model(&subscription).Updates(map[string]interface{}{
		"status":     models.SubscriptionCancelled,
		"auto_renew": false,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the status in CancelSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when updating the subscription status"})
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription cancelled in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled successfully"})
}
