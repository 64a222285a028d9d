package users

import (
	"net/http"

	"github.com/RasParker/modular-maestro-sub000/db"
	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/gin-gonic/gin"
)

// GetMyProfile returns the connected user's profile
// @Summary Get my profile
// @Description Return the profile of the connected user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /users/me [get]
func GetMyProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "User not found in GetMyProfile")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMyProfile modifies the connected user's profile
// @Summary Update my profile
// @Description Update the mutable profile fields of the connected user. The role is fixed at registration and cannot change here.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /users/me [put]
func UpdateMyProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var userData models.UserUpdate
	if err := c.ShouldBindJSON(&userData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if userData.UserName != "" {
		updates["user_name"] = userData.UserName
	}
	if userData.DisplayName != "" {
		updates["display_name"] = userData.DisplayName
	}
	if userData.Bio != "" {
		updates["bio"] = userData.Bio
	}
	if userData.Avatar != "" {
		updates["avatar"] = userData.Avatar
	}
	if userData.CoverImage != "" {
		updates["cover_image"] = userData.CoverImage
	}
	if userData.CommentsEnable != nil {
		updates["comments_enable"] = *userData.CommentsEnable
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile: " + err.Error()})
			return
		}
	}

	utils.LogSuccessWithUser(userID, "Profile updated")
	c.JSON(http.StatusOK, user)
}
