package creators

import (
	"encoding/json"
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// GetAllCreators lists the creators of the platform
// @Summary List creators
// @Description Return all enabled creator accounts
// @Tags creators
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /creators [get]
func GetAllCreators(c *gin.Context) {
	var creators []models.User
	err := db.DB.Where("role = ? AND enable = ?", models.CreatorRole, true).
		Order("total_subscribers DESC").
		Find(&creators).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving creators: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, creators)
}

// GetCreator returns a creator's public profile
// @Summary Get a creator
// @Description Return a creator's profile by ID
// @Tags creators
// @Produce json
// @Param creatorId path string true "Creator ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Router /creators/{creatorId} [get]
func GetCreator(c *gin.Context) {
	creatorID := c.Param("creatorId")

	var creator models.User
	err := db.DB.First(&creator, "id = ? AND role = ?", creatorID, models.CreatorRole).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}

	c.JSON(http.StatusOK, creator)
}

// GetCreatorTiers lists the active tiers of a creator
// @Summary List a creator's tiers
// @Description Return the active subscription tiers offered by a creator
// @Tags creators
// @Produce json
// @Param creatorId path string true "Creator ID"
// @Success 200 {array} models.SubscriptionTier
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /creators/{creatorId}/tiers [get]
func GetCreatorTiers(c *gin.Context) {
	creatorID := c.Param("creatorId")

	var tiers []models.SubscriptionTier
	err := db.DB.Where("creator_id = ? AND is_active = ?", creatorID, true).
		Order("price ASC").
		Find(&tiers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tiers: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, tiers)
}

// CreateTier creates a subscription tier for the connected creator
// @Summary Create a tier
// @Description Create a subscription tier (creator only)
// @Tags creators
// @Accept json
// @Produce json
// @Param tier body models.TierCreate true "Tier definition"
// @Security BearerAuth
// @Success 201 {object} models.SubscriptionTier
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /tiers [post]
func CreateTier(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var tierData models.TierCreate
	if err := c.ShouldBindJSON(&tierData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if tierData.Price.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tier price must be greater than zero"})
		return
	}

	benefits, err := json.Marshal(tierData.Benefits)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid benefits: " + err.Error()})
		return
	}

	tier := models.SubscriptionTier{
		CreatorID:   userID.(string),
		Name:        tierData.Name,
		Description: tierData.Description,
		Price:       tierData.Price,
		Currency:    "GHS",
		Benefits:    datatypes.JSON(benefits),
		IsActive:    true,
	}

	if err := db.DB.Create(&tier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating tier: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Tier created: "+tier.Name)
	c.JSON(http.StatusCreated, tier)
}

// UpdateTier modifies a tier of the connected creator
// @Summary Update a tier
// @Description Update a tier's name, description, price, benefits or active flag (owner only)
// @Tags creators
// @Accept json
// @Produce json
// @Param tierId path string true "Tier ID"
// @Param tier body models.TierUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.SubscriptionTier
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your tier"
// @Failure 404 {object} map[string]string "error: Tier not found"
// @Router /tiers/{tierId} [put]
func UpdateTier(c *gin.Context) {
	tierID := c.Param("tierId")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var tier models.SubscriptionTier
	if err := db.DB.First(&tier, "id = ?", tierID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found"})
		return
	}

	if tier.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this tier"})
		return
	}

	var tierData models.TierUpdate
	if err := c.ShouldBindJSON(&tierData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if tierData.Name != "" {
		updates["name"] = tierData.Name
	}
	if tierData.Description != "" {
		updates["description"] = tierData.Description
	}
	if tierData.Price != nil {
		if tierData.Price.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tier price must be greater than zero"})
			return
		}
		updates["price"] = *tierData.Price
	}
	if tierData.Benefits != nil {
		benefits, err := json.Marshal(tierData.Benefits)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid benefits: " + err.Error()})
			return
		}
		updates["benefits"] = datatypes.JSON(benefits)
	}
	if tierData.IsActive != nil {
		updates["is_active"] = *tierData.IsActive
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&tier).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating tier: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, tier)
}

// DeleteTier removes a tier with no subscriptions
// @Summary Delete a tier
// @Description Delete a tier. Refused with 409 while subscriptions reference it; deactivate the tier instead.
// @Tags creators
// @Produce json
// @Param tierId path string true "Tier ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Tier deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your tier"
// @Failure 404 {object} map[string]string "error: Tier not found"
// @Failure 409 {object} map[string]string "error: Tier still referenced by subscriptions"
// @Router /tiers/{tierId} [delete]
func DeleteTier(c *gin.Context) {
	tierID := c.Param("tierId")

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var tier models.SubscriptionTier
	if err := db.DB.First(&tier, "id = ?", tierID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found"})
		return
	}

	if tier.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this tier"})
		return
	}

	// A tier must outlive every subscription pointing at it.
	var count int64
	if err := db.DB.Model(&models.Subscription{}).Where("tier_id = ?", tierID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking subscriptions"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Tier still referenced by subscriptions, deactivate it instead"})
		return
	}

	if err := db.DB.Delete(&tier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting tier: " + err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Tier deleted: "+tier.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Tier deleted successfully"})
}
